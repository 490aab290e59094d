// Package tcp provides the raw print-port listener.
//
// Connections are accepted one at a time and handed to a
// driving.ReceiverService, which consumes the stream until the peer closes
// it. Nothing is ever written back to the peer.
package tcp
