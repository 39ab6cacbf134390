package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var researchInstructions = map[string]string{
	"academic":    "You are a research assistant helping with academic research. Focus on scholarly sources, methodologies, and academic insights.",
	"market":      "You are a market research analyst. Focus on market trends, consumer behavior, and business insights.",
	"scientific":  "You are a scientific research assistant. Focus on scientific methodologies, data analysis, and research findings.",
	"literature":  "You are a literature review specialist. Focus on analyzing and synthesizing existing research and publications.",
	"trends":      "You are a trend analyst. Focus on identifying and analyzing current and emerging trends.",
	"competitive": "You are a competitive analysis specialist. Focus on analyzing competitors, market positioning, and strategic insights.",
}

// ResearchInstruction returns the system prompt for a research type,
// falling back to academic.
func ResearchInstruction(researchType string) string {
	if s, ok := researchInstructions[strings.ToLower(strings.TrimSpace(researchType))]; ok {
		return s
	}
	return researchInstructions["academic"]
}

var studyPrompts = map[string]string{
	"flashcards": "Create study flashcards with questions on one side and answers on the other. Format each flashcard as Q: [question] A: [answer]",
	"summary":    "Create a concise summary of the key concepts and main points. Use bullet points and clear headings.",
	"quiz":       "Create a quiz with multiple-choice questions and explanations for the answers. Format as Q1: [question] Options: [a,b,c,d] Answer: [correct option] Explanation: [why]",
	"mindmap":    "Create a text-based mind map showing the relationships between key concepts. Use indentation and bullet points to show hierarchy.",
	"timeline":   "Create a chronological timeline of important events and developments. Format as [date/period]: [event/development]",
}

// StudyPrompt returns the system prompt for a study type, falling back to summary.
func StudyPrompt(studyType string) string {
	if s, ok := studyPrompts[strings.ToLower(strings.TrimSpace(studyType))]; ok {
		return s
	}
	return studyPrompts["summary"]
}

var stylePrompts = map[string]string{
	"realistic":  "ultra realistic, photorealistic, highly detailed, professional photography",
	"artistic":   "artistic style, creative interpretation, vibrant colors, expressive brushstrokes",
	"digital":    "digital art style, modern aesthetic, sleek design, perfect lighting",
	"vintage":    "vintage style, retro aesthetic, film grain, nostalgic atmosphere",
	"minimalist": "minimalist style, clean and simple, refined composition, subtle details",
	"fantasy":    "fantasy art style, magical and ethereal, mystical atmosphere, enchanted scenery",
	"comic":      "comic book style, bold colors and lines, dynamic composition, cel shading",
	"cinematic":  "cinematic style, dramatic lighting and composition, movie-like quality",
}

// NormalizeStyle returns a known style name, defaulting to realistic.
func NormalizeStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	if _, ok := stylePrompts[style]; ok {
		return style
	}
	return "realistic"
}

// StyledImagePrompt appends the style enhancement to the user's prompt.
func StyledImagePrompt(prompt, style string) string {
	style = NormalizeStyle(style)
	return fmt.Sprintf("%s. Style: %s, %s.", strings.TrimSpace(prompt), style, stylePrompts[style])
}

// NormalizeResolution maps a requested size onto one the image model
// accepts. Anything unsupported becomes square.
func NormalizeResolution(resolution string) string {
	switch strings.ToLower(strings.TrimSpace(resolution)) {
	case "1792x1024":
		return "1792x1024"
	default:
		return "1024x1024"
	}
}

var voiceMapping = map[string]string{
	"male":   "alloy",
	"female": "ash",
	"child":  "fable",
}

// MapVoice translates the UI voice names. Unknown names pass through and
// an empty name selects alloy.
func MapVoice(voice string) string {
	voice = strings.TrimSpace(voice)
	if mapped, ok := voiceMapping[strings.ToLower(voice)]; ok {
		return mapped
	}
	if voice == "" {
		return "alloy"
	}
	return voice
}

const maxTitleRunes = 60

// ConversationTitle derives a title from the first user message.
func ConversationTitle(firstUserMessage string) string {
	title := strings.Join(strings.Fields(firstUserMessage), " ")
	if title == "" {
		return "New conversation"
	}
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxTitleRunes-3])) + "..."
}

// IdeasSystemPrompt asks the model for a JSON array of idea strings.
const IdeasSystemPrompt = `You are a creative idea generator. Respond with a JSON array of 5 to 10 short, distinct, actionable ideas as strings. Respond with the JSON array only.`

// PresentationSystemPrompt asks the model for slides as JSON.
func PresentationSystemPrompt(template, colorScheme string) string {
	if template == "" {
		template = "professional"
	}
	return fmt.Sprintf(`You are a presentation designer. Create a %s presentation of 5 to 8 slides.
Respond with JSON only, shaped as {"slides":[{"title":"...","content":"...","notes":"..."}]}.
Content holds bullet points separated by newlines. Notes are short speaker notes.
The deck will be shown with the %q color scheme, so keep text concise.`, template, colorScheme)
}

var (
	codeFence  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	slideHead  = regexp.MustCompile(`(?m)^(?:#{1,3}\s*|Slide\s+\d+\s*[:.-]\s*)(.+)$`)
)

// ErrUnparsableResponse is returned when model output has no usable structure.
var ErrUnparsableResponse = errors.New("ai: could not parse model response")

func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if m := codeFence.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return content
}

// ParseIdeas reads a JSON array of strings, or failing that one idea per
// non-empty line with list markers removed.
func ParseIdeas(content string) ([]string, error) {
	body := stripFence(content)

	var ideas []string
	if err := json.Unmarshal([]byte(body), &ideas); err == nil {
		return compact(ideas)
	}
	var wrapped struct {
		Ideas []string `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err == nil && len(wrapped.Ideas) > 0 {
		return compact(wrapped.Ideas)
	}

	for _, line := range strings.Split(body, "\n") {
		ideas = append(ideas, listMarker.ReplaceAllString(line, ""))
	}
	return compact(ideas)
}

func compact(items []string) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrUnparsableResponse
	}
	return out, nil
}

// Slide is one generated presentation slide.
type Slide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Notes   string `json:"notes"`
}

// ParseSlides reads the JSON deck, or failing that splits markdown on
// "# Title" or "Slide N: Title" headings.
func ParseSlides(content string) ([]Slide, error) {
	body := stripFence(content)

	var deck struct {
		Slides []Slide `json:"slides"`
	}
	if err := json.Unmarshal([]byte(body), &deck); err == nil && len(deck.Slides) > 0 {
		return deck.Slides, nil
	}

	heads := slideHead.FindAllStringSubmatchIndex(body, -1)
	if len(heads) == 0 {
		return nil, ErrUnparsableResponse
	}
	slides := make([]Slide, 0, len(heads))
	for i, h := range heads {
		end := len(body)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		slides = append(slides, Slide{
			Title:   strings.TrimSpace(body[h[2]:h[3]]),
			Content: strings.TrimSpace(body[h[1]:end]),
		})
	}
	return slides, nil
}
