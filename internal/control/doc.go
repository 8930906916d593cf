// Package control implements the live-coding remote control server: a TCP
// listener that speaks just enough of the WebSocket protocol for browser
// and script clients to stream player state into the engine.
//
// The implementation is deliberately narrow. Supported: the RFC 6455
// opening handshake, and single unfragmented client-masked data frames with
// 7-bit payload lengths (payloads under 126 bytes). Not supported, by
// design: extended 16/64-bit lengths, continuation frames, compression
// extensions and TLS. Frames outside the precondition drop the sending
// connection rather than being mis-parsed.
//
// All connections are serviced by one goroutine using short socket
// deadlines, so each pass over the listener and the client table is bounded
// and the shutdown signal is observed promptly. Decoded messages mutate the
// two player records through the engine snapshot; nothing else in the
// engine is touched.
package control
