// Package prompt assembles the instruction prompts sent to the completion
// service: the retrieval-context block, the history-aware question rewrite,
// the final answer prompt, and the transcript summary prompt.
package prompt

import (
	"fmt"
	"strings"

	"intellibot/internal/domain"
)

// Context concatenates up to limit snippet texts into a single labeled block:
// "Context 1: ...", "Context 2: ...", in the order the backend returned them.
// A record missing the search column contributes an empty snippet; the lookup
// is not validated here.
func Context(records []domain.Record, searchColumn string, limit int) string {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	blocks := make([]string, 0, len(records))
	for i, rec := range records {
		blocks = append(blocks, fmt.Sprintf("Context %d: %s", i+1, rec[searchColumn]))
	}
	return strings.Join(blocks, "\n\n")
}

// UserHistory joins the content of the user-role turns, chronological order,
// one per line. This is the input to the history-aware rewrite.
func UserHistory(history []domain.Turn) string {
	var lines []string
	for _, t := range history {
		if t.Role == domain.RoleUser {
			lines = append(lines, t.Content)
		}
	}
	return strings.Join(lines, "\n")
}

// JoinedHistory renders the full history, all roles, one "<Role>: <content>"
// line per turn.
func JoinedHistory(history []domain.Turn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, t.Role.Title()+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// RewritePrompt asks the model to fold prior user questions into the current
// one, producing a stand-alone retrieval query.
func RewritePrompt(chatHistory, question string) string {
	return fmt.Sprintf(`[INST]
Based on the chat history below and the question, generate a query that extends
the question with the chat history provided. The query should be in natural
language. Answer with only the query. Do not add any explanation.

<chat_history>
%s
</chat_history>
<question>
%s
</question>
[/INST]`, chatHistory, question)
}

/// AnswerPrompt is the final instruction template: history, retrieved context,
// and the original question.
func AnswerPrompt(chatHistory, context, question string) string {
	return fmt.Sprintf(`[INST]
You are a helpful AI chat assistant with RAG capabilities. When a user asks you
a question, you will also be given context provided between <context> and
</context> tags. Use that context with the user's chat history provided between
the <chat_history> and </chat_history> tags to provide a summary that addresses
the user's question. Ensure the answer is coherent, concise, and directly
relevant to the user's question. If the user asks a generic question which
cannot be answered with the given context or chat history, just say "I don't
know the answer to that question."

<chat_history>
%s
</chat_history>
<context>
%s
</context>
<question>
%s
</question>
[/INST]
Answer:`, chatHistory, context, question)
}

// SummaryPrompt asks the model to condense a full transcript into key bullet
// points.
func SummaryPrompt(transcript string) string {
	return fmt.Sprintf(`[INST]
You are an expert summarizer. Summarize the following chat conversation into
5-7 key bullet points that capture the main ideas and solutions shared by the
assistant. Be concise, and do not repeat.

<chat_history>
%s
</chat_history>
Your output should look like:
- Point 1
- Point 2
...
[/INST]`, transcript)
}
