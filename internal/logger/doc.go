// Package logger wraps zap with a global sugared logger, level parsing and
// context helpers (ToContext, FromContext, WithName, WithKV).
//
// Packages take a context and log through it so that names and key-value
// pairs attached higher up the call chain travel with every message.
package logger
