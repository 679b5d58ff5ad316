package autowire_test

import (
	"github.com/km-arc/go-autowire/framework/metadata"
)

const (
	shopModule   = "github.com/acme/shop"
	legacyModule = "github.com/acme/legacy"
)

// shop is a small universe shared by the tests in this package:
//
//	github.com/acme/shop    interfaces, caches, loggers, repositories, handlers
//	github.com/acme/legacy  one cache implementation
//	fmt                     a system module
type shop struct {
	u *metadata.Universe

	shop, legacy, system *metadata.Module

	iCache, iDisposable, iLogger, iRepo, handler *metadata.Type
	orderPlaced                                  *metadata.Type

	testCache, logger, customerRepo, orderHandler, auditHandler, ignored *metadata.Type

	legacyCache, stringer *metadata.Type
}

func newShop() *shop {
	f := &shop{u: metadata.NewUniverse()}
	f.shop = f.u.Module(shopModule)
	f.legacy = f.u.Module(legacyModule)
	f.system = f.u.Module("fmt")

	f.iCache = f.shop.Interface("ICache")
	f.iDisposable = f.shop.Interface("IDisposable")
	f.iLogger = f.shop.Interface("ILogger")
	f.iRepo = f.shop.Interface("IRepository")
	f.handler = f.shop.GenericInterface("IHandlerFor", []string{"TEvent"})
	f.orderPlaced = f.shop.Struct("OrderPlaced")

	handlesOrders := f.u.Instantiate(f.handler, f.orderPlaced)

	f.testCache = f.shop.Struct("TestCache", metadata.Implements(f.iCache, f.iDisposable),
		metadata.WithConstructor(func(metadata.Resolver) any { return "test-cache" }))
	f.logger = f.shop.Struct("Logger", metadata.Implements(f.iLogger, f.iDisposable))
	f.customerRepo = f.shop.Struct("CustomerRepository", metadata.Implements(f.iRepo))
	f.orderHandler = f.shop.Struct("OrderHandler", metadata.Implements(handlesOrders),
		metadata.WithConstructor(func(metadata.Resolver) any { return "order-handler" }))
	f.auditHandler = f.shop.Struct("AuditHandler", metadata.Implements(handlesOrders),
		metadata.WithConstructor(func(metadata.Resolver) any { return "audit-handler" }))
	f.ignored = f.shop.Struct("IgnoredCache", metadata.Implements(f.iCache), metadata.Marked("ignore"))

	f.legacyCache = f.legacy.Struct("LegacyCache", metadata.Implements(f.iCache))

	f.stringer = f.system.Interface("Stringer")
	f.system.Struct("pp", metadata.Implements(f.stringer))
	return f
}
