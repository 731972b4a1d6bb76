package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a 200 response in the {success: true, ...} envelope.
func OK(c *gin.Context, data gin.H) {
	respond(c, http.StatusOK, data)
}

// Created writes a 201 response in the {success: true, ...} envelope.
func Created(c *gin.Context, data gin.H) {
	respond(c, http.StatusCreated, data)
}

func respond(c *gin.Context, status int, data gin.H) {
	payload := gin.H{"success": true}
	for k, v := range data {
		payload[k] = v
	}
	c.JSON(status, payload)
}

func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   msg,
	})
}
