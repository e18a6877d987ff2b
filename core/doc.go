// Package core contains the canonical access-provisioning domain: platform
// manifests, capability resolution, request validation, the uniform plugin
// contract, and PAM configuration shapes. Platform plugins and storage
// adapters must depend on this package; core must not depend on
// platform-specific or transport-specific adapters.
//
// Everything in this package is a pure decision layer: no network I/O, no
// persistence, no raw secret material. Callers hand in opaque credential
// references and get back decisions, validation results, or manual
// instruction steps.
package core
