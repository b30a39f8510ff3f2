// Package setrules implements the rules of the classic Set card game: card
// decoding, triple validation and triple enumeration.
//
// # Cards
//
// A card is identified by an integer id in [0, DeckSize). Its four features
// (number, color, shading, shape) are the base-3 digits of the id, least
// significant digit first.
//
// # Triples
//
// Three cards form a triple when, for every feature, the three values are
// either all equal or all different. With base-3 digits this is the same as
// requiring every feature to sum to a multiple of 3.
package setrules
