// Package claim defines the data model a receipt attests to: digests,
// exit codes, outputs and receipt claims, together with the tagged
// hashing scheme that gives every node in the claim graph a stable
// digest whether or not it has been pruned.
//
// These types form the ABI contract between the guest and any verifier
// of its receipt. They must remain stable and backward compatible.
package claim
