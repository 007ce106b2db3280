// Package pkgrouter is the HTTP edge of the service. Router wraps httprouter;
// its handlers return a payload or a *pkgerror.Error, and both are encoded
// into the shared JSON envelope by the middleware stack built in NewRouter.
package pkgrouter
