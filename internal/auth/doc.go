// Package auth implements the Spotify login: PKCE secrets, the authorization request, the code-for-token
// exchange and the on-disk credential store.
//
// # Flow
//
// [Authenticator.Login] drives a single login:
//  1. [NewSecretPair] generates a verifier and its S256 challenge.
//  2. [NewAuthorizationRequest] builds the authorize URL, which is opened with an [Opener].
//  3. A [server.CallbackServer] waits on the loopback redirect for one outcome.
//  4. [TokenExchangeClient.Exchange] trades the code and verifier for a [CredentialPair].
//  5. [CredentialStore.Save] replaces the stored pair.
//
// The verifier lives only in memory for the duration of a login.
//
// # Errors
//
// Failures wrap the sentinels in [shared]; token endpoint failures are [*TokenExchangeError] values that
// match [shared.ErrTokenExchange] with [errors.Is].
package auth
