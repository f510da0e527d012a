package answer

import "fmt"

const systemPrompt = `You are a support assistant answering questions about the product documentation.
Answer using only the provided context. If the context does not contain
the answer, say that you do not know instead of guessing. Keep answers
short and concrete.`

// userPrompt binds the retrieved context and the question into one turn.
// The trailing "Answer:" anchors the model to reply with the answer body
// and nothing else.
func userPrompt(contextText, query string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s\nAnswer:", contextText, query)
}
