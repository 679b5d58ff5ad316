package app

import (
	_ "embed"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/km-arc/go-autowire/framework/container"
	"github.com/km-arc/go-autowire/framework/metadata"
)

// Module is the name the shop's types are declared under.
const Module = "github.com/km-arc/go-autowire/app"

// Rules are the shop's auto-wiring rules, used unless AUTOWIRE_RULES or
// --rules names another file.
//
//go:embed autowire.hcl
var Rules []byte

// Contracts holds the declared interfaces, for resolving by key.
type Contracts struct {
	Logger, Cache, Customers, Orders, OrderService *metadata.Type
	OrderPlacedHandlers                            *metadata.Type
}

// Universe declares the shop's types. Each call returns a fresh universe.
func Universe() (*metadata.Universe, Contracts) {
	u := metadata.NewUniverse()
	m := u.Module(Module)

	var c Contracts
	c.Logger = m.Reflect(reflect.TypeFor[ILogger]())
	c.Cache = m.Reflect(reflect.TypeFor[ICache]())
	c.Customers = m.Reflect(reflect.TypeFor[ICustomerRepository]())
	c.Orders = m.Reflect(reflect.TypeFor[IOrderRepository]())
	c.OrderService = m.Reflect(reflect.TypeFor[IOrderService]())

	handlerFor := m.GenericInterface("IHandlerFor", []string{"TEvent"})
	orderPlaced := m.Reflect(reflect.TypeFor[OrderPlaced]())
	c.OrderPlacedHandlers = u.Instantiate(handlerFor, orderPlaced)

	m.Reflect(reflect.TypeFor[*Logger]())
	m.Reflect(reflect.TypeFor[*MemoryCache](),
		metadata.WithConstructor(func(metadata.Resolver) any { return NewMemoryCache() }))
	m.Reflect(reflect.TypeFor[NullCache](), metadata.Marked("autowire:ignore"))
	m.Reflect(reflect.TypeFor[*CustomerRepository](),
		metadata.WithConstructor(func(metadata.Resolver) any { return NewCustomerRepository() }))
	m.Reflect(reflect.TypeFor[*OrderRepository]())

	m.Reflect(reflect.TypeFor[*OrderService](), metadata.WithConstructor(func(r metadata.Resolver) any {
		return &OrderService{
			Customers: r.Make(container.Key(c.Customers, "")).(ICustomerRepository),
			Orders:    r.Make(container.Key(c.Orders, "")).(IOrderRepository),
			Handlers:  all[IHandlerFor[OrderPlaced]](r, c.OrderPlacedHandlers),
		}
	}))

	m.Reflect(reflect.TypeFor[*SendReceipt](), metadata.Implements(c.OrderPlacedHandlers),
		metadata.WithConstructor(func(r metadata.Resolver) any {
			return &SendReceipt{Log: r.Make(container.Key(c.Logger, "")).(ILogger)}
		}))
	m.Reflect(reflect.TypeFor[*CacheLastOrder](), metadata.Implements(c.OrderPlacedHandlers),
		metadata.WithConstructor(func(r metadata.Resolver) any {
			return &CacheLastOrder{Cache: r.Make(container.Key(c.Cache, "")).(ICache)}
		}))

	return u, c
}

// EchoLog decorates the bound ILogger so every shop log line is also
// written to logger at info level. Instances built before the call are
// decorated in place when the binding is a singleton.
func EchoLog(c *container.Container, contracts Contracts, logger *log.Logger) {
	c.Extend(container.Key(contracts.Logger, ""), func(instance any, _ *container.Container) any {
		return &echoLogger{ILogger: instance.(ILogger), logger: logger}
	})
}

type echoLogger struct {
	ILogger
	logger *log.Logger
}

func (l *echoLogger) Log(msg string) {
	l.ILogger.Log(msg)
	l.logger.Info(msg, "source", "shop")
}

// all resolves every binding of contract when r is a container.
func all[T any](r metadata.Resolver, contract *metadata.Type) []T {
	c, ok := r.(interface{ All(*metadata.Type) []any })
	if !ok {
		return nil
	}
	var out []T
	for _, v := range c.All(contract) {
		out = append(out, v.(T))
	}
	return out
}
