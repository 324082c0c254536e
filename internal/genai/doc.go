// Package genai implements the client for the external generation service.
//
// # Wire Contract
//
// Requests are POSTed to {base_url}/models/{model}:generateContent?key={api_key}
// with a JSON body:
//
//	{
//	  "contents": [{"role": "user", "parts": [{"text": "..."}]}, ...],
//	  "generationConfig": {"temperature": ..., "topK": ..., "topP": ..., "maxOutputTokens": ...},
//	  "safetySettings": [{"category": "...", "threshold": "..."}, ...]
//	}
//
// The reply text is extracted from candidates[0].content.parts[0].text; any
// body without that shape is ErrMalformedResponse, and any non-2xx status is
// ErrRequestFailed.
//
// # Statelessness
//
// Every call carries only the fixed system instruction and the current query.
// Prior conversation turns are never included, so calls are independent and
// order-insensitive from the service's perspective. Generation parameters and
// safety thresholds are constants, identical for every call.
package genai
