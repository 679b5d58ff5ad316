// Package autowire binds types to service contracts by convention.
//
// An Engine is configured with module filters, type filters and rules, then
// applied to a metadata universe. Every eligible type is tried against
// every rule; each matching rule binds the type into a Registry (normally
// the framework container) under zero or more contracts:
//
//	e := autowire.New(app, autowire.WithLogger(logger)).
//	    IncludeAllModules().
//	    ExcludeSystemModules().
//	    Exclude(autowire.HasMarker("ignore")).
//	    Include(autowire.NameHasSuffix("Repository"),
//	        autowire.Register().AsSingleContract().WithPartName("Repository")).
//	    Include(autowire.ImplementsOpenGeneric(handler),
//	        autowire.Register().AsOpenGeneric(handler))
//
//	if err := e.Apply(universe); err != nil {
//	    return err
//	}
//
// Misconfiguration (a nil predicate, an open-generic strategy pointed at a
// plain interface) panics at the call that introduced it. Failures while
// applying are returned by Apply; registry errors come back unwrapped.
package autowire
