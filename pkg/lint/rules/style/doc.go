// Package style provides lint rules about wording and readability.
//
// Rules in this package:
//   - redundant-expression: doubled meaning (頭痛が痛い → 頭が痛い)
//   - sentence-length: sentences longer than max_length runes
//   - dialogue-brackets: nested, empty or unmatched 「」『』
//   - word-repetition: the same content word repeated in nearby sentences
package style
