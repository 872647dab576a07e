package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Caption fallbacks shown to the caller.
const (
	CaptionFallbackError = "Failed to generate prompt"
	CaptionNoPrompt      = "No prompt received from the service"
	CaptionForwardStep   = "api_route"
)

// CaptionStep is one diagnostic step reported by the captioning service.
type CaptionStep struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CaptionResponse is the captioning service reply, passed through as is.
type CaptionResponse struct {
	Success bool          `json:"success"`
	Prompt  string        `json:"prompt,omitempty"`
	Error   string        `json:"error,omitempty"`
	Steps   []CaptionStep `json:"steps,omitempty"`
}

// CaptionFailure builds the reply used when the forwarder itself fails.
func CaptionFailure(msg string) *CaptionResponse {
	return &CaptionResponse{
		Success: false,
		Error:   msg,
		Steps:   []CaptionStep{{Name: CaptionForwardStep, Success: false, Error: msg}},
	}
}

// ErrorMessage returns the message to display for a failed reply: the
// top-level error, else the first failing step's error, else a fallback.
func (r *CaptionResponse) ErrorMessage() string {
	if r.Error != "" {
		return r.Error
	}
	for _, s := range r.Steps {
		if !s.Success && s.Error != "" {
			return s.Error
		}
	}
	return CaptionFallbackError
}

// PromptText returns the caption or an error describing why there is none.
func (r *CaptionResponse) PromptText() (string, error) {
	if !r.Success {
		return "", &UpstreamError{Service: "caption", Message: r.ErrorMessage()}
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return "", &UpstreamError{Service: "caption", Message: CaptionNoPrompt}
	}
	return r.Prompt, nil
}

// CleanCaptionPrompt trims the caption and strips one enclosing [ ] pair.
func CleanCaptionPrompt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// CaptionTimeoutMessage formats the caller-facing timeout error.
func CaptionTimeoutMessage(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("Request timed out after %d seconds", int(d/time.Second))
	}
	return fmt.Sprintf("Request timed out after %s seconds", strconv.FormatFloat(d.Seconds(), 'f', -1, 64))
}
