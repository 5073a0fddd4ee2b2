// Copyright 2025 Sarthak Raghuvanshi
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package crypto provides per-user key derivation and authenticated
// encryption for stored content.
//
// Every user's content is encrypted with a key derived from a single
// process-wide master secret and the user identifier. Key material is never
// persisted; it is recomputed on demand by the KeyManager. Content blobs use
// AES-256-GCM with the layout nonce(12) || tag(16) || ciphertext, so a blob
// shorter than 28 bytes is malformed by construction.
//
// The master secret is an explicit Config value passed to NewKeyManager;
// this package performs no environment lookups of its own.
package crypto
