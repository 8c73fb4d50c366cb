package conversation

import (
	"fmt"
	"strings"
)

// BannerGenerationFailed is surfaced next to the log when a submit fails.
const BannerGenerationFailed = "Failed to get AI response. Please try again."

const generationErrorText = "I apologize, but I'm having trouble processing your request right now. " +
	"This could be due to API limits, connectivity issues, or the complexity of your question. " +
	"Please try again in a moment or rephrase your question.\n\n" +
	"Don't worry - learning sometimes involves overcoming technical hurdles too! 😊"

var (
	generationErrorSources   = []string{"Technical Support Guide", "API Documentation"}
	generationErrorFollowUps = []string{
		"Try rephrasing your question in simpler terms",
		"Check your internet connection",
		"Ask about a different topic for now",
	}
	extractionFollowUps = []string{
		"Explain the key concepts from this image",
		"Create practice questions from this content",
		"Break down any difficult parts for me",
		"Help me understand how this connects to my studies",
	}
	fileFollowUps = []string{
		"Summarize the main points from these files",
		"Create study questions based on this material",
		"Explain the key concepts in simple terms",
		"Help me identify the most important information",
	}
)

const previewLength = 200

// preview returns the first 200 characters of text, with an ellipsis when cut.
func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewLength {
		return text
	}
	return string(r[:previewLength]) + "..."
}

func subjectClause(subject string) string {
	if subject == "" {
		return ""
	}
	return fmt.Sprintf(" in the context of **%s**", subject)
}

func extractionText(documentType, text, subject string) string {
	return fmt.Sprintf("Excellent! 📸 I've successfully analyzed your **%s** image using Vision AI! "+
		"The text has been extracted and I can now help you understand this material%s.\n\n"+
		"**Document Type:** %s\n**Content Preview:** %s\n\n"+
		"This looks like great study material! I can help you understand difficult concepts, create practice questions, "+
		"summarize key points, or explain anything that seems confusing. What would you like to focus on?",
		documentType, subjectClause(subject), documentType, preview(text))
}

func filesText(names []string, subject string) string {
	return fmt.Sprintf("Perfect! 📁 I've successfully received your %d file(s): **%s**. "+
		"I'm ready to help you understand and work with this material%s!\n\n"+
		"I can analyze the content, answer questions about it, create study guides, generate practice questions, "+
		"or explain any concepts you find challenging. The files are now part of our study session context.\n\n"+
		"What would you like to explore from these materials?",
		len(names), strings.Join(names, ", "), subjectClause(subject))
}
