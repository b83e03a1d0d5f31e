// Package llm provides a provider-neutral abstraction layer for Large Language Model APIs.
//
// The package defines the canonical conversation types and interfaces that let the
// report engine work with multiple LLM providers (Anthropic, OpenAI) without being
// coupled to any specific vendor's wire format.
//
// # Core Concepts
//
//  1. Messages: the Message type represents a conversation message with a role
//     (user, assistant, system) and content blocks (text, tool use, tool results).
//     Conversations are append-only audit trails.
//
//  2. Tools: ToolSpec describes a tool offered to the model; ToolUseBlock and
//     ToolResultBlock represent the correlated invocation request/result pair.
//     Every request produces exactly one result, success or failure.
//
//  3. Client: the Client interface issues one provider call per Synchronous
//     invocation and normalizes the vendor response into canonical content blocks.
//     Implementations live in the llm/anthropic and llm/openai subpackages.
//
//  4. Registry: model ids resolve to provider families through pattern membership.
//     A model id that matches no family yields UnsupportedModelError; adding a
//     third family is a Register call, with no change to the callers.
//
//  5. Errors: the Error type carries a provider-neutral category (auth, rate
//     limit, invalid request, provider, network) plus the original provider error
//     as its unwrappable cause.
//
// To add a new provider family, implement Client in a subpackage, translate
// between the vendor types and this package's types, classify vendor errors
// through ClassifyStatus, and register the family with a model-id predicate.
package llm
