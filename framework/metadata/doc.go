// Package metadata is the type metadata table the auto-wiring engine reads.
//
// # Overview
//
// Go has no runtime enumeration of loaded types, so candidate types are
// declared up front into a Universe. A Universe is an ordered set of
// Modules; each Module holds the Types it declares in declaration order.
// A Type reports its declared contracts (interfaces), its markers, whether
// it is an open-generic definition, and the module it comes from.
//
// # Declaring types explicitly
//
//	u := metadata.NewUniverse()
//	shop := u.Module("github.com/acme/shop")
//
//	cache := shop.Interface("ICache")
//	disposable := shop.Interface("IDisposable")
//	shop.Struct("TestCache", metadata.Implements(cache, disposable), metadata.Marked("cache"))
//
// # Open generics
//
//	handlerFor := shop.GenericInterface("IHandlerFor", []string{"TEvent"})
//	event := shop.Struct("DomainEvent")
//	shop.Struct("OrderPlacedHandler", metadata.Implements(u.Instantiate(handlerFor, event)))
//
// Instantiate interns instantiations, so every type that implements
// IHandlerFor[DomainEvent] shares one *Type.
//
// # Declaring types from Go
//
//	shop.Reflect(reflect.TypeFor[Cache]())              // interface
//	shop.Reflect(reflect.TypeFor[*RedisCache]())        // implements Cache automatically
//
// Reflected structs implement every reflected interface of the universe
// that their Go type satisfies, in the order the interfaces were declared,
// so interfaces must be reflected before the structs that implement them.
package metadata
