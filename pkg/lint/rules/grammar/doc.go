// Package grammar provides lint rules for non-standard conjugation and word
// combinations.
//
// Rules in this package:
//   - ra-nuki: potential forms missing ら (見れる → 見られる)
//   - sa-ire: superfluous さ in causatives (読まさせる → 読ませる)
//   - i-nuki: dropped い in progressive forms (してる → している)
//   - counter-mismatch: counter words that do not fit the counted noun
package grammar
