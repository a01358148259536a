// Command asn1tool decodes, re-encodes and maps BER/DER data from files,
// packet captures and over HTTP.
package main

func main() {
	Execute()
}
