package llm

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

const baseSystemPrompt = `You are an advanced and friendly AI study buddy designed to help students of all levels. Your goal is to make learning engaging, efficient, and personalized.

**Your Core Functions:**
1. **Explain Concepts:** Break down complex topics into easy-to-understand explanations
2. **Generate Practice Questions:** Create quizzes, flashcards, or problem sets
3. **Provide Feedback:** Evaluate answers and offer constructive criticism
4. **Suggest Study Strategies:** Offer tips on time management, memorization, and effective learning
5. **Summarize Information:** Condense long texts or lectures into key points
6. **Maintain an Encouraging Tone:** Always be positive, patient, and supportive
7. **Personalize Learning:** Adapt to the user's learning style and subject interests

**Your Personality & Tone:**
- **Friendly & Approachable:** Use natural, conversational language
- **Knowledgeable & Clear:** Deliver accurate information concisely
- **Patient & Encouraging:** Never condescending. Celebrate progress
- **Proactive:** Anticipate learning needs and suggest next steps

**Interaction Guidelines:**
- Ask clarifying questions if requests are unclear
- Confirm understanding with "Does that make sense?" or "Would you like me to explain it differently?"
- Suggest visual aids or diagrams when helpful (describe them clearly)
- Keep initial responses concise, then offer to elaborate
- Use **bold formatting** for key terms, concepts, and important points

**Response Format:**
- Use **bold text** for emphasis, key terms, and important concepts
- Structure responses with clear headings when appropriate
- Use bullet points for lists`

const responseGuidelines = `Please provide a comprehensive, educational response that:
- Uses **bold formatting** for key terms and important concepts
- Is structured clearly and logically
- Maintains an encouraging and friendly tone
- Includes specific examples when helpful
- Suggests next steps for continued learning
- Confirms understanding when appropriate`

// Prompt represents the system prompt + the content to send as "user".
type Prompt struct {
	System string
	User   string
}

// BuildPrompt builds the system prompt (persona + profile) and the user
// content (question + attached files + personalization + guidelines).
func BuildPrompt(req domain.GenerationRequest) Prompt {
	return Prompt{
		System: buildSystemPrompt(req.Profile),
		User:   buildUserContent(req),
	}
}

func buildSystemPrompt(p *domain.UserProfile) string {
	if p == nil {
		return baseSystemPrompt
	}

	var b strings.Builder
	b.WriteString(baseSystemPrompt)
	b.WriteString("\n\n**User Profile Context:**\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.DisplayName)
	fmt.Fprintf(&b, "- Academic Level: %s\n", p.AcademicLevel)
	fmt.Fprintf(&b, "- Preferred Difficulty: %s\n", p.PreferredDifficulty)
	fmt.Fprintf(&b, "- Subjects of Interest: %s\n", strings.Join(p.SubjectsOfInterest, ", "))
	fmt.Fprintf(&b, "- Learning Goals: %s\n", strings.Join(p.LearningGoals, ", "))
	b.WriteString("\nAdapt your responses to match their academic level and preferred difficulty. ")
	b.WriteString("When relevant, reference their subjects of interest and learning goals to make the content more engaging and personalized.")
	return b.String()
}

func buildUserContent(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Student Question: ")
	b.WriteString(req.Prompt)

	if len(req.Uploads) > 0 {
		names := make([]string, 0, len(req.Uploads))
		for _, u := range req.Uploads {
			names = append(names, u.Name)
		}
		fmt.Fprintf(&b,
			"\n\nContext: The student has uploaded %d file(s): %s. Please acknowledge these materials in your response and reference them when relevant.",
			len(names), strings.Join(names, ", "))
	}

	if p := req.Profile; p != nil {
		fmt.Fprintf(&b,
			"\n\nRemember to tailor your response to %s's %s level and %s difficulty preference. If the question relates to their interests (%s), make connections to help them achieve their learning goals.",
			p.DisplayName, p.AcademicLevel, p.PreferredDifficulty, strings.Join(p.SubjectsOfInterest, ", "))
	}

	b.WriteString("\n\n")
	b.WriteString(responseGuidelines)
	return b.String()
}
