package database

import (
	"github.com/01moynul/storefront-golang/internal/account"
	"github.com/01moynul/storefront-golang/internal/catalog"
	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/outbox"
)

var (
	_ commerce.Store = (*Store)(nil)
	_ catalog.Store  = (*Store)(nil)
	_ account.Store  = (*Store)(nil)
	_ outbox.Source  = (*Store)(nil)
)
