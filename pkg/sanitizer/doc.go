// Package sanitizer normalizes client-supplied booking data before validation and storage.
//
// All functions are idempotent and never fail: invalid input normalizes to an empty
// string so that the validator reports it as missing.
//
// Normalization includes:
//   - Names, addresses, free text: collapse whitespace, trim
//   - Emails: trim, lowercase
//   - Phone numbers: E.164 (+[country][number]), national numbers resolved against a default region
package sanitizer
