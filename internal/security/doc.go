// Package security derives a posture report from a resolved token policy.
//
// It flags HMAC secrets shorter than the hash output, HMAC and asymmetric
// algorithms sharing one allowlist, and lifetimes beyond a day.
package security
