package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	Calls   int
	Prompts []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}
