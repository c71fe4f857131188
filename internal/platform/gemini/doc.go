// Package gemini provides generation.Provider implementations backed by
// Google's Gemini API through the google.golang.org/genai client.
//
// This package is an infrastructure adapter: it translates between the
// generation package's Provider capability and the Gemini SDK without exposing
// SDK types to the rest of the application.
//
// Key components:
//
// 1. TextProvider:
//   - Sends the caption prompt to a text model
//   - Joins the text parts of the first candidate
//
// 2. ImageProvider:
//   - Requests TEXT and IMAGE response modalities
//   - Returns the first inline image blob
//
// 3. Error Handling:
//   - ClassifyError maps SDK errors to generation.TransientError or
//     generation.PermanentError using the API status code
//   - Safety blocks surface as generation.ErrContentBlocked
package gemini
