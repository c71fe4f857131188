// Package generation turns a meme topic into an image and an optional caption
// by calling external AI/LLM providers. Providers are hidden behind the
// Provider interface; concrete adapters (Gemini, Replicate, Hugging Face) live
// under internal/platform.
//
// The Invoker wraps the image call in a bounded retry loop with pure
// exponential backoff. Only errors classified as *TransientError are retried;
// everything else is returned after the first attempt.
package generation
