// Package client builds the completion provider for a chat model.
//
// The model's provider decides which adapter is used:
//
//	m, _ := model.Lookup("gpt-4o")
//	p, err := client.New(ctx, client.Config{
//		APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	}, m)
//	exec := executor.New(p, m)
//
// Only the key for the selected provider needs to be set.
package client
