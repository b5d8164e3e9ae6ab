// Package settingsapi is the GraphQL client for the provider settings API.
//
// Every response is stripped of "__typename" keys before it is decoded, so
// nothing past this package sees transport metadata. The provider catalog is
// cached and shared between concurrent callers; successful create, update and
// delete calls invalidate it.
package settingsapi
