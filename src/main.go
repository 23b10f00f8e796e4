package main

import (
	"atman/src/boot"
	"atman/src/config"
	"atman/src/lib"
	"io"
	"log"
	"net/http"
	"os"
	"path"

	"regexp"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9()\- ]{5,31}$`)

var phoneValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	phone, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return phoneRe.MatchString(phone)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	cfg := config.Load()

	boot.InitDb()
	lib.InitRedis(cfg)
	if cfg.YookassaEnabled() {
		lib.InitGateway(cfg)
	} else {
		log.Println("YooKassa credentials missing, payments disabled")
	}
	boot.InitScheduler(cfg)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", phoneValidatorFunc)
	}

	router := setupRouter()

	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "HEAD", "OPTIONS")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Content-Type", "X-Payment-Sha1-Hash")
		cc.AllowAllOrigins = false
		cc.AllowOrigins = cfg.CORSOrigins
		if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
			cc.AllowAllOrigins = true
			cc.AllowOrigins = nil
		}
		router.Use(cors.New(cc))
	}

	api := router.Group(apiPrefix)
	{
		publicHandlers(api, cfg)
		bookingHandlers(api, cfg)
		paymentHandlers(api, cfg)
	}

	if err := router.Run(":" + cfg.AppPort); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
