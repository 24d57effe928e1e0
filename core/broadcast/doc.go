// Package broadcast implements cross-module message delivery: a process-wide
// registry of (type name → receiver) bindings built at startup, and a client
// that transcodes each published message into every receiver's own declared
// type before delivery.
//
// # Routing by Bare Type Name
//
// Registrations and lookups key on the unqualified type name, never the
// package path. Two modules that declare structurally-similar types with the
// same short name, such as users.CredentialsProvided and iam.CredentialsProvided,
// deliberately share a routing slot: publishing either type delivers to both
// registrations. This is the decoupling mechanism that lets modules exchange
// messages without referencing each other's types. It also means unrelated
// types that happen to share a name will collide; choose globally unique
// message names.
//
// # Transcoding
//
// Delivery never casts the publisher's value to the receiver's type. Instead
// the message is encoded (JSON by default) and decoded into a fresh instance
// of the receiver's declared type: fields are matched by name, fields unique
// to the source are dropped, fields unique to the receiver stay at their zero
// value. Publisher and receiver therefore need only structural compatibility.
//
// # Lifecycle
//
//	registry := broadcast.NewRegistry()
//	if err := registry.Add(broadcast.BindDispatcher[CredentialsProvided]("iam", iamEvents)); err != nil {
//	    log.Fatal(err) // configuration defect, fail startup
//	}
//	registry.Freeze() // immutable from here on
//
//	client := broadcast.NewClient(registry)
//	err := client.Publish(ctx, CredentialsProvided{PublicKey: key, Username: "alice"})
//
// All matching deliveries run concurrently; failures are aggregated with
// errors.Join and a failing receiver never blocks its siblings.
package broadcast
