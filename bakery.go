// Package bakery is the root package for the Bakery project generator.
package bakery

// Version is the current Bakery release. It is embedded in every manifest a
// generation run writes, so bump it on release.
const Version = "0.4.0"
