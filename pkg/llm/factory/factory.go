package factory

import (
	"fmt"

	"studyspace-be/pkg/llm"
	"studyspace-be/pkg/llm/ollama"
)

const defaultOllamaURL = "http://localhost:11434"

func NewLLMProvider(providerType, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama", "":
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		if modelName == "" {
			return nil, fmt.Errorf("ollama provider needs a model name")
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
