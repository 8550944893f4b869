package app

import (
	"fmt"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/prompt"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

type Services struct {
	Catalog     *catalog.Catalog
	Prompts     *prompt.Builder
	Intake      services.IntakeService
	Render      services.RenderService
	Product     services.ProductService
	Notifier    services.NotifierService
	Designs     services.DesignQueryService
	Fulfillment services.FulfillmentService
	Analytics   services.AnalyticsService
}

func wireServices(log *logger.Logger, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	cat, err := catalog.Default()
	if err != nil {
		return Services{}, fmt.Errorf("load catalog: %w", err)
	}
	prompts := prompt.NewBuilder(cat)

	var status services.StatusPublisher
	if clients.StatusBus != nil {
		status = clients.StatusBus
	}
	store := clients.Storage.Store

	intake := services.NewIntakeService(log, store, reposet.Design, status)
	render := services.NewRenderService(log, clients.Generator, store, prompts, reposet.Design, reposet.DesignIteration, status)
	product := services.NewProductService(log, clients.Shopify, cat, reposet.Design, status)
	notifier := services.NewNotifierService(log, clients.SendGrid, cat, reposet.Design, status)

	return Services{
		Catalog:     cat,
		Prompts:     prompts,
		Intake:      intake,
		Render:      render,
		Product:     product,
		Notifier:    notifier,
		Designs:     services.NewDesignQueryService(log, reposet.Design),
		Fulfillment: services.NewFulfillmentService(log, intake, render, product, notifier, reposet.Design, status),
		Analytics:   services.NewAnalyticsService(log, reposet.AnalyticsEvent),
	}, nil
}
