package studygen

import (
	"fmt"

	"studyspace-be/internal/entity"
)

const systemPrompt = `You are a patient study assistant. Answer in the language of the student's material.
Use plain Markdown. Never invent facts that are not supported by the material.`

var tabContext = map[entity.TabID]string{
	entity.TabGeneral:   "The student pasted general study notes.",
	entity.TabExam:      "The student is preparing for an exam on this material. Prioritise what is likely to be tested.",
	entity.TabEquations: "The material is mathematical. Keep every equation exact and show derivation steps.",
}

func buildPrompt(tab entity.TabID, mode entity.Mode, input string) (string, error) {
	var task string
	switch mode {
	case entity.ModeFlashcards:
		task = `Create 8-12 flashcards from the material.
Format each card as:
**Q:** question
**A:** answer`
	case entity.ModeSummary:
		task = `Write a structured summary of the material:
- one sentence overview
- the key concepts as bullet points
- a short "remember this" line at the end`
	case entity.ModeQuiz:
		task = `Write a 5 question multiple-choice quiz on the material.
Give four options (A-D) per question and list the answers with a one line explanation at the end.`
	case entity.ModeStudyPlan:
		task = `Create a study plan for mastering the material over 5 days.
For each day give the goal, the topics and one practice activity.`
	case entity.ModeExplain:
		task = `Explain the material step by step as if to a student seeing it for the first time.
Finish with one worked example.`
	default:
		return "", fmt.Errorf("no prompt for mode %q", mode)
	}

	return fmt.Sprintf(`%s

%s

MATERIAL:
%s`, tabContext[tab], task, input), nil
}

func buildExtractionPrompt(input string) string {
	return fmt.Sprintf(`List every equation or formula that appears in the text below.

TEXT:
%s

Respond in JSON format:
{
  "equations": ["E = mc^2"]
}

Requirements:
- Copy each equation exactly as written, one per entry
- Do not add equations that are not in the text
- Return an empty list when there are none`, input)
}
