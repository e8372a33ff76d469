// Package engines contains the concrete text-to-speech backends: the
// macOS say binary, the OpenAI, ElevenLabs and Amazon Polly APIs, a
// local Chatterbox server, and a deterministic mock for tests. All of
// them are thin vendor glue wrapped around the shared cache protocol.
package engines
