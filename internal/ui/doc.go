// Package ui renders the tgterm panels.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line): conversation title and presence    │
//	├────────────┬────────────────────────────────────────┤
//	│            │                                        │
//	│ Chat list  │  Conversation                          │
//	│ (1/5 wide) │  (4/5 wide)                            │
//	│            │                                        │
//	├────────────┴────────────────────────────────────────┤
//	│ Input (textarea)                                    │
//	├─────────────────────────────────────────────────────┤
//	│ Footer (1 line): key bindings for the focus/mode    │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: singleton holding the layout arithmetic. The app updates it
// on every resize and the viewport engine reads the conversation box size
// from it, so wrapping and backfill decisions use the same geometry as
// the renderer.
//
// Header, Footer: one-line bars.
//
// RenderChatList, RenderConversation, RenderInput: stateless panel
// renderers. They take already-snapshotted data and never touch the
// stores.
//
// # Colours
//
// Themes live in theme.go. Sender names use a fixed palette of
// store.PaletteSize colours, indexed by the participant's colour slot.
package ui
