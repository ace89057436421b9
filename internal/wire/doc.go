// Package wire frames the messages exchanged between naclbox relay clients
// and servers.
package wire
