package provider

import (
	"github.com/etiquetas-qr/internal/cache"
	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/logger"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/queue"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/service"
	"github.com/etiquetas-qr/internal/storage"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storage     storage.ObjectStorage

	// Repositories
	AdminRepo    repository.AdminRepository
	ClientRepo   repository.ClientRepository
	TemplateRepo repository.TemplateRepository
	ProductRepo  repository.ProductRepository
	SerialRepo   repository.SerialRepository
	RequestRepo  repository.RequestRepository
	DeliveryRepo repository.DeliveryRepository

	// Services
	AuthService     *service.AuthService
	EmailService    *service.EmailService
	ClientService   *service.ClientService
	TemplateService *service.TemplateService
	ProductService  *service.ProductService
	SerialService   *service.SerialService
	RangeService    *service.RangeService
	RequestService  *service.RequestService
	DeliveryService *service.DeliveryService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "error", err)
		panic(err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Storage:     store,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ClientRepo = repository.NewClientRepository(db)
	c.TemplateRepo = repository.NewTemplateRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.SerialRepo = repository.NewSerialRepository(db)
	c.RequestRepo = repository.NewRequestRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.ClientService = service.NewClientService(c.ClientRepo)
	c.TemplateService = service.NewTemplateService(c.TemplateRepo, c.ClientRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ClientRepo, c.TemplateRepo)
	c.SerialService = service.NewSerialService(c.Config, c.SerialRepo, c.ClientRepo, c.ProductRepo)
	c.RangeService = service.NewRangeService(c.SerialRepo, c.RequestRepo)
	c.RequestService = service.NewRequestService(c.RequestRepo, c.SerialRepo, c.Storage)
	c.DeliveryService = service.NewDeliveryService(c.SerialRepo, c.DeliveryRepo, c.Storage, c.QueueClient)
}
