// Package snippet defines the snippet data model and its JSON library store.
//
// A snippet pairs a short trigger string with raw template content. The engine
// treats snippets as read-only; the external editor owns their lifecycle and
// this package owns persistence: a single JSON library file with a "snippets"
// array, loaded with gjson and updated in place with sjson so unrelated keys
// written by other tools survive a round trip.
//
// Watcher reloads the library file on change (debounced) so the matcher can
// swap in the new set without restarting.
package snippet
