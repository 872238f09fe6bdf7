// Package triage provides the business boundary for patient email triage.
// It defines the Service (validation, ids, timeout, notification dispatch),
// Engine (one LLM completion, fence cleanup, JSON parse), the Provider
// interface implemented by LLM backends, and domain models.
package triage
