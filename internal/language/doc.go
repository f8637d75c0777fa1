// Package language normalizes caller-supplied language hints into the
// two-letter codes the speech-to-text provider expects.
//
// Hints arrive in whatever form a user typed: "en", "eng", "English",
// "pt-BR". A small table handles the word forms and legacy three-letter
// codes; anything else goes through BCP 47 parsing so regional variants
// collapse to their base language.
package language
