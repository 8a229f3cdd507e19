// Package store holds the in-memory chat state shared between the network
// worker and the UI: participants, conversations with their message
// history, and the chat registry.
//
// Locking is per unit. Each Conversation guards its own messages and
// viewport fields; the Chats registry guards only order and selection.
// The registry never holds its lock while taking a conversation's lock.
package store
