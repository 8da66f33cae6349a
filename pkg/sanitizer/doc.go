// Package sanitizer provides input normalization for booking and fleet
// data before validation and storage.
//
// All normalization functions are idempotent - applying them multiple
// times produces the same result. Functions handle invalid input
// gracefully, typically by returning the input trimmed or an empty
// string rather than errors.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 (+44...) with GB as the default region
//   - Emails: trim and lowercase
//   - Postcodes: uppercase with a single space before the inward code - "sw1a1aa" becomes "SW1A 1AA"
//   - Names/addresses: collapse whitespace, trim
//   - Slugs: lowercase, non-alphanumerics collapsed to hyphens - "Princess Castle" becomes "princess-castle"
package sanitizer
