package conversation

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

var greetingSources = []string{
	"Educational Psychology Research",
	"Learning Sciences Best Practices",
	"Academic Study Methods Guide",
}

// Greeting is the opening assistant message of a session.
type Greeting struct {
	Text      string
	FollowUps []string
	Sources   []string
}

// BuildGreeting picks one of four templates depending on whether a subject
// and a profile are present. It has no side effects.
func BuildGreeting(subject string, profile *domain.UserProfile) Greeting {
	subject = strings.TrimSpace(subject)
	g := Greeting{Sources: append([]string(nil), greetingSources...)}

	switch {
	case subject != "" && profile != nil:
		g.Text = fmt.Sprintf("Hello **%s**! 🌟 I'm excited to help you learn **%s**! I can assist you with any concepts, problems, or questions you have in this subject.\n\n"+
			"I'll adapt my explanations to your **%s** level and help you achieve your learning goals. Feel free to ask questions, upload study materials, or take photos of your notes - I'm here to make learning %s engaging and fun!\n\n"+
			"What would you like to explore in **%s** today? 📚✨",
			profile.DisplayName, subject, profile.PreferredDifficulty, subject, subject)
	case subject != "":
		g.Text = fmt.Sprintf("Hello! 🌟 I'm your friendly AI study companion, and I'm thrilled to help you learn **%s**! I can assist you with any concepts, problems, or questions you have in this subject.\n\n"+
			"I love making learning engaging and personalized just for you. Feel free to ask questions, upload study materials, or take photos of your notes. I'm here to break down complex topics, create practice questions, and celebrate your progress every step of the way!\n\n"+
			"What would you like to explore in **%s** today? 📚✨",
			subject, subject)
	case profile != nil:
		interests := "mathematics and sciences"
		if n := len(profile.SubjectsOfInterest); n > 0 {
			interests = strings.Join(profile.SubjectsOfInterest[:min(n, 2)], " and ")
		}
		g.Text = fmt.Sprintf("Hello **%s**! 🌟 I'm your friendly AI study companion, and I'm excited to help you learn! I can assist you with any subject - from %s to literature, history, and beyond.\n\n"+
			"I'll adapt my explanations to your **%s** level and help you achieve your learning goals. Feel free to ask questions, upload study materials, or take photos of your notes - I'm here to make learning engaging and fun!\n\n"+
			"What would you like to explore today? 📚✨",
			profile.DisplayName, interests, profile.PreferredDifficulty)
	default:
		g.Text = "Hello! 🌟 I'm your friendly AI study companion, and I'm thrilled to help you learn! I can assist you with any subject - from mathematics and sciences to literature, history, arts, and beyond.\n\n" +
			"I love making learning engaging and personalized just for you. Feel free to ask questions, upload study materials, or take photos of your notes. I'm here to break down complex topics, create practice questions, and celebrate your progress every step of the way!\n\n" +
			"What would you like to explore today? 📚✨"
	}

	switch {
	case subject != "":
		g.FollowUps = []string{
			"Explain key concepts in " + subject,
			"Create practice questions for " + subject,
			"Help me understand difficult " + subject + " topics",
			"Show me study strategies for " + subject,
		}
	case profile != nil && len(profile.SubjectsOfInterest) > 0:
		g.FollowUps = []string{
			"Help me understand " + profile.SubjectsOfInterest[0] + " concepts",
			"Create practice questions for my studies",
			"Explain study strategies that work best for me",
		}
	default:
		g.FollowUps = []string{
			"Explain a concept I'm struggling with",
			"Create practice questions for any subject",
			"Help me develop better study strategies",
			"Analyze my uploaded study materials",
		}
	}

	return g
}

// Title is the display title of a session.
func Title(subject string, profile *domain.UserProfile) string {
	switch {
	case subject != "" && profile != nil:
		return fmt.Sprintf("%s's %s Session", profile.DisplayName, subject)
	case subject != "":
		return subject + " Study Session"
	case profile != nil:
		return profile.DisplayName + "'s Study Session"
	default:
		return "Study Session"
	}
}
