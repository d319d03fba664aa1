package config

import (
	"ride-service/src/internal/delivery/http"
	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/internal/delivery/http/route"
	"ride-service/src/internal/gateway/messaging"
	"ride-service/src/internal/geo"
	"ride-service/src/internal/model"
	"ride-service/src/internal/repository"
	"ride-service/src/internal/usecase"
	"ride-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "ride-service/src/pkg/kafka/confluent"
	"ride-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	Geoservice  *GeoService
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	rideRepository := repository.NewRideRepository(config.DB)
	bookingRepository := repository.NewBookingRepository(config.DB)
	userRepository := repository.NewUserRepository(config.DB)
	notificationProducer := messaging.NewNotificationProducer(config.Producer, config.Log)

	var routeAPI geo.RouteAPI
	if config.Geoservice != nil {
		routeAPI = config.Geoservice.Client
	}
	geoClient := geo.NewClient(routeAPI, config.Redis, config.Log, config.Config)

	// setup use cases
	rideUseCase := usecase.NewRideUseCase(
		config.Log,
		config.Validate,
		config.Config,
		rideRepository,
		bookingRepository,
		userRepository,
		geoClient,
		config.AsynqClient,
	)

	bookingUseCase := usecase.NewBookingUseCase(
		config.Log,
		config.Validate,
		config.Config,
		bookingRepository,
		rideRepository,
		config.AsynqClient,
	)

	notificationUseCase := usecase.NewNotificationUseCase(config.Log, notificationProducer)

	// setup controller
	rideController := http.NewRideController(rideUseCase, config.Log)
	bookingController := http.NewBookingController(bookingUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	if config.Async != nil {
		config.Async.HandleFunc(model.TaskNotificationDispatch, notificationUseCase.HandleDispatch)
	}

	routeConfig := route.RouteConfig{
		App:               config.App,
		RideController:    rideController,
		BookingController: bookingController,
		AuthMiddleware:    authMiddleware,
	}
	routeConfig.Setup()
}
