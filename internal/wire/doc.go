// Package wire is the stable encoding of deliveries.
//
// A delivery is written as canonical JSON: object keys in RFC 8785 order,
// strings NFC-normalized, no HTML escaping, no floats and no nulls. The same
// delivery always encodes to the same bytes, which lets a match be verified
// by re-simulating it and comparing a hash chain over those bytes.
package wire
