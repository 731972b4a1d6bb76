package chat

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/eternal-365/educonnect/internal/users"
)

var knowledgeBase = map[string]string{
	"math":    "Focus on NCERT and RD Sharma. Practice daily problems and revise formulas regularly.",
	"science": "NCERT diagrams are crucial. Conduct small experiments and understand concepts practically.",
	"english": "Daily reading improves vocabulary. Practice writing essays and grammar exercises.",
	"general": "Maintain consistent study schedule. Take breaks every 45 minutes for better retention.",
}

var fallbackReplies = []string{
	"I'm having trouble connecting right now. Please try again in a moment.",
	"It seems I'm experiencing some technical difficulties. Could you please rephrase your question?",
	"I apologize, but I'm unable to process your request at the moment. Please try again shortly.",
}

// FallbackReply returns the canned user-visible reply for upstream failures.
func FallbackReply() string {
	return fallbackReplies[rand.Intn(len(fallbackReplies))]
}

// systemPrompt builds the fixed mentor instruction plus the student context
// and the recent conversation transcript.
func systemPrompt(student *users.User, transcript string) string {
	class := "Not specified"
	if student.StudentClass > 0 {
		class = fmt.Sprintf("%d", student.StudentClass)
	}
	remarks := student.Remarks
	if remarks == "" {
		remarks = "No remarks yet"
	}

	var kb strings.Builder
	subjects := make([]string, 0, len(knowledgeBase))
	for s := range knowledgeBase {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	for _, s := range subjects {
		fmt.Fprintf(&kb, "- %s: %s\n", s, knowledgeBase[s])
	}

	var b strings.Builder
	b.WriteString("You are a friendly, knowledgeable educational mentor.\n\n")
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Be supportive, encouraging, and personalized\n")
	b.WriteString("2. Reference the student's performance data when relevant\n")
	b.WriteString("3. Provide practical, actionable advice\n")
	b.WriteString("4. Keep responses concise but helpful\n")
	b.WriteString("5. If unsure, ask clarifying questions\n\n")
	b.WriteString("Knowledge Base:\n")
	b.WriteString(kb.String())
	b.WriteString("\nStudent Context:\n")
	fmt.Fprintf(&b, "- Name: %s\n", student.Name)
	fmt.Fprintf(&b, "- Class: %s\n", class)
	fmt.Fprintf(&b, "- Performance: Math %d%%, Science %d%%, English %d%%\n",
		student.Performance["math"], student.Performance["science"], student.Performance["english"])
	fmt.Fprintf(&b, "- Attendance: %d%%\n", student.Attendance)
	fmt.Fprintf(&b, "- Recent Remarks: %s\n", remarks)
	if transcript != "" {
		b.WriteString("\nRecent Conversation:\n")
		b.WriteString(transcript)
		b.WriteString("\n")
	}
	b.WriteString("\nAlways respond in a warm, mentor-like tone.")
	return b.String()
}
