// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// Every screen is the view of a route in the navigation table:
//  1. login : a text input; enter stores the typed user id as the session token
//  2. profile : counters and photos of /profiles/{id}; f/F follow and unfollow, x/X ban and unban, j/k select a
//     photo, +/- like and unlike it, D deletes it on your own profile
//  3. stream : recent photos of followed users
//  4. search : a pattern input and a selectable list of users
//  5. upload : space separated file paths, uploaded with progress reporting
//
// The (view) [Model] never decides what may be shown. Key presses ask the [navigation.Engine] to move, the engine
// consults its guard, and only committed transitions reach the model, through the engine's AfterEach hook and the
// [MsgCommitted] message. Data fetches start from there, so a view never loads data for a route the guard refused.
//
// Keyboard navigation uses single-letter bindings (p, s, /, u, b, L, q) whenever no text input has focus; esc leaves
// an input. Contextual help is displayed via charmbracelet/bubbles/help.
package ui
