package tui

import "errors"

// ErrMissingRegistry is returned when the document registry is not provided.
var ErrMissingRegistry = errors.New("tui: document registry is required")

// ErrMissingConversation is returned when the conversation is not provided.
var ErrMissingConversation = errors.New("tui: conversation is required")

// ErrMissingCitations is returned when the citation resolver is not provided.
var ErrMissingCitations = errors.New("tui: citation resolver is required")

// ErrMissingClaims is returned when the claims service is not provided.
var ErrMissingClaims = errors.New("tui: claims service is required")

// ErrMissingSelection is returned when the selection service is not provided.
var ErrMissingSelection = errors.New("tui: selection service is required")

// ErrMissingCoordinator is returned when the view coordinator is not provided.
var ErrMissingCoordinator = errors.New("tui: view coordinator is required")

// ErrMissingPDFService is returned when the PDF service is not provided.
var ErrMissingPDFService = errors.New("tui: pdf service is required")
