// Package server provides the short-lived HTTP listener that receives the Spotify authorization redirect.
//
// [BasicRouter] registers method-qualified [http.ServeMux] patterns and wraps every route in the
// [Middleware] stack, outermost first.
//
// [CallbackHandler] checks the state token, trades the code for an [oauth2.Token] and publishes a single
// [CallbackResult]. The redirect path comes from the configured redirect URI, so a tunnel such as ngrok can
// forward a public HTTPS URL to the local listener.
package server
