package main

import (
	"fmt"

	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/constants"
	"github.com/etiquetas-qr/internal/logger"
	"github.com/etiquetas-qr/internal/models"
)

// Seeds a demo client with a product, a landing template, a request
// and a small block of associated serials for local development.
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	client := models.Client{
		Name:       "Industrias Demo",
		Slug:       "industrias-demo",
		ClientCode: "IND01",
	}
	var existingClient models.Client
	if err := models.DB.Where("slug = ?", client.Slug).First(&existingClient).Error; err != nil {
		if err := models.DB.Create(&client).Error; err != nil {
			stdLog.Fatalf("failed to create demo client: %v", err)
		}
		stdLog.Printf("created client: %s", client.Slug)
	} else {
		client = existingClient
		stdLog.Printf("client already exists: %s", client.Slug)
	}

	template := models.LabelTemplate{
		ClientID: client.ID,
		Name:     "landing_default",
		IsActive: true,
	}
	var existingTemplate models.LabelTemplate
	if err := models.DB.Where("client_id = ? AND name = ?", client.ID, template.Name).First(&existingTemplate).Error; err != nil {
		if err := models.DB.Create(&template).Error; err != nil {
			stdLog.Printf("failed to create demo template: %v", err)
		} else {
			stdLog.Printf("created template: %s", template.Name)
		}
	} else {
		template = existingTemplate
	}

	product := models.Product{
		ClientID:    client.ID,
		TemplateID:  &template.ID,
		Name:        "Etiqueta industrial",
		ProductCode: "ETQ-100",
		Description: "Etiqueta adhesiva con codigo QR",
		FieldName1:  "Lote",
		FieldName2:  "Referencia",
	}
	var existingProduct models.Product
	if err := models.DB.Where("client_id = ? AND product_code = ?", client.ID, product.ProductCode).First(&existingProduct).Error; err != nil {
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Fatalf("failed to create demo product: %v", err)
		}
		stdLog.Printf("created product: %s", product.ProductCode)
	} else {
		product = existingProduct
		stdLog.Printf("product already exists: %s", product.ProductCode)
	}

	request := models.Request{
		Code:               "CIDEMO0001",
		CompanyName:        "Industrias Demo S.A.S.",
		AboutUs:            "<p><strong>Industrias Demo</strong> fabrica etiquetas desde 1998.</p>",
		TaxID:              "900123456-7",
		Address:            "Calle 10 # 20-30, Bogota",
		Phone:              "6015551234",
		Email:              "contacto@industriasdemo.test",
		Website:            "https://industriasdemo.test",
		Boxes:              2,
		Rolls:              4,
		SerialCount:        10,
		ShowDeliveryButton: true,
		Locations: []models.Location{
			{Address: "Calle 10 # 20-30", Phone: "6015551234", City: "Bogota"},
			{Address: "Carrera 50 # 12-80", Phone: "6045556789", City: "Medellin"},
		},
	}
	var existingRequest models.Request
	if err := models.DB.Where("code = ?", request.Code).First(&existingRequest).Error; err != nil {
		if err := models.DB.Create(&request).Error; err != nil {
			stdLog.Fatalf("failed to create demo request: %v", err)
		}
		stdLog.Printf("created request: %s", request.Code)
	} else {
		request = existingRequest
		stdLog.Printf("request already exists: %s", request.Code)
	}

	floor := cfg.Serial.Floor
	if floor == 0 {
		floor = constants.SerialFloor
	}
	created := 0
	for i := uint64(1); i <= 20; i++ {
		code, err := models.NewSerialCode(floor + i)
		if err != nil {
			stdLog.Fatalf("failed to build serial code: %v", err)
		}
		serial := models.Serial{
			Code:          code.String(),
			ClientID:      client.ID,
			ProductID:     product.ID,
			URL:           fmt.Sprintf("%s/%s/qr/?qr=%s", cfg.Serial.BaseURL, client.Slug, code.Display()),
			Status:        models.SerialStatusScheduled,
			MaxDeliveries: cfg.Serial.MaxDeliveries,
		}
		if i <= 10 {
			serial.RequestID = &request.ID
			serial.Status = models.SerialStatusDistribution
			serial.Field1 = "L-2024-01"
			serial.Field2 = "REF-88"
		}
		var existing models.Serial
		if err := models.DB.Where("code = ?", serial.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&serial).Error; err != nil {
				stdLog.Printf("failed to create serial %s: %v", serial.Code, err)
				continue
			}
			created++
		}
	}
	stdLog.Printf("seeded %d serials starting at %d", created, floor+1)
}
