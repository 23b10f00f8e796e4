package main

import (
	"atman/src/config"
	"atman/src/db"
	"atman/src/lib"
	"atman/src/lib/mailer"
	"atman/src/models"
	"atman/src/types"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cacheKeySite     = "public:site"
	cacheKeyServices = "public:services"
	cacheKeyGallery  = "public:gallery"
	cacheKeyLegal    = "public:legal"
)

var defaultLegalPages = map[string]types.APIResponseLegalPage{
	"offer": {
		Slug:    "offer",
		Title:   "Публичная оферта",
		Content: "Настоящий документ является предложением заключить договор оказания услуг студии Атман. Оплата услуги и/или подтверждение записи означает принятие условий оферты.",
	},
	"privacy": {
		Slug:    "privacy",
		Title:   "Политика конфиденциальности",
		Content: "Мы обрабатываем персональные данные только для оказания услуг и обратной связи. Данные не передаются третьим лицам без законных оснований.",
	},
	"personal-data": {
		Slug:    "personal-data",
		Title:   "Согласие на обработку персональных данных",
		Content: "Оставляя заявку на сайте, пользователь подтверждает согласие на обработку персональных данных в соответствии с 152-ФЗ.",
	},
	"marketing": {
		Slug:    "marketing",
		Title:   "Согласие на информационную рассылку",
		Content: "Пользователь может получать информационные и маркетинговые сообщения студии и в любой момент отозвать согласие, обратившись по контактам на сайте.",
	},
	"terms": {
		Slug:    "terms",
		Title:   "Условия оказания услуг",
		Content: "Запись на практики подтверждается после оформления заявки. Время и формат участия могут уточняться администратором. Для отдельных услуг действуют ограничения и правила подготовки.",
	},
}

var legalPageOrder = []string{"offer", "privacy", "personal-data", "marketing", "terms"}

func parseJSONOrDefault(raw *string, fallback types.JSONB) types.JSONB {
	if raw == nil || *raw == "" {
		return fallback
	}
	var out types.JSONB
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return fallback
	}
	return out
}

func settingString(m map[string]*string, key string) string {
	if v, ok := m[key]; ok && v != nil {
		return *v
	}
	return ""
}

func serializeSite(rows []models.Setting) gin.H {
	settings := make(map[string]*string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	visual := parseJSONOrDefault(settings["visual"], types.JSONB{
		"font_family":         "Helvetica Now Display",
		"home_background":     "#1b245c",
		"home_title_color":    "#f7ebac",
		"home_text_color":     "#fffdf2",
		"service_background":  "#f3efe8",
		"service_title_color": "#446799",
		"service_text_color":  "#5f748a",
	})

	contacts := parseJSONOrDefault(settings["contacts"], types.JSONB{})
	fallbacks := map[string]string{
		"phone":         settingString(settings, "contact_phone"),
		"phone_2":       settingString(settings, "contact_phone_2"),
		"email":         settingString(settings, "contact_email"),
		"address":       settingString(settings, "contact_address"),
		"working_hours": settingString(settings, "working_hours"),
		"telegram":      settingString(settings, "social_telegram"),
		"vk":            settingString(settings, "social_vk"),
		"rutube":        settingString(settings, "social_rutube"),
	}
	for key, fallback := range fallbacks {
		if v, ok := contacts[key].(string); !ok || v == "" {
			contacts[key] = fallback
		}
	}

	brand := settingString(settings, "brand")
	if brand == "" {
		brand = "СТУДИЯ АТМАН"
	}

	var homeImage *string
	if v, ok := settings["home_image"]; ok {
		homeImage = v
	}

	return gin.H{
		"brand":      brand,
		"tagline":    settingString(settings, "tagline"),
		"subline":    settingString(settings, "subline"),
		"home_image": homeImage,
		"visual":     visual,
		"contacts":   contacts,
		"organization": gin.H{
			"name":   settingString(settings, "org_name"),
			"inn":    settingString(settings, "org_inn"),
			"ogrnip": settingString(settings, "org_ogrnip"),
		},
		"analytics": gin.H{
			"metrika_id": settingString(settings, "metrika_id"),
		},
	}
}

func scheduleToResponse(event *models.ScheduleEvent) types.APIResponseSchedule {
	res := types.APIResponseSchedule{
		ID:                  event.ID,
		ServiceID:           event.ServiceID,
		StartTime:           event.StartTime,
		EndTime:             event.EndTime,
		MaxParticipants:     event.MaxParticipants,
		CurrentParticipants: event.CurrentParticipants,
		AvailableSpots:      event.AvailableSpots(),
		IsIndividual:        event.IsIndividual,
		IsActive:            event.IsActive,
	}
	if event.Service != nil {
		res.ServiceSlug = event.Service.Slug
		res.ServiceTitle = event.Service.Title
	}
	return res
}

func legalPage(rows map[string]*string, slug string) types.APIResponseLegalPage {
	page := defaultLegalPages[slug]
	raw, ok := rows[slug]
	if !ok || raw == nil || *raw == "" {
		return page
	}
	var parsed struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(*raw), &parsed); err != nil {
		return page
	}
	if parsed.Title != "" {
		page.Title = parsed.Title
	}
	if parsed.Content != "" {
		page.Content = parsed.Content
	}
	return page
}

func loadLegalOverrides(keys []string) map[string]*string {
	d := db.GetDb()
	var rows []models.Setting
	overrides := make(map[string]*string, len(keys))
	if err := d.
		Model(&models.Setting{}).
		Where("key IN ?", keys).
		Find(&rows).
		Error; err != nil {
		log.Printf("Error loading legal settings: %s\n", err.Error())
		return overrides
	}
	for _, row := range rows {
		overrides[strings.TrimPrefix(row.Key, "legal_")] = row.Value
	}
	return overrides
}

func listScheduleEvents(serviceSlug string) ([]types.APIResponseSchedule, error) {
	d := db.GetDb()
	query := d.
		Model(&models.ScheduleEvent{}).
		Joins("JOIN services ON services.id = schedule_events.service_id").
		Where("schedule_events.is_active = ? AND services.is_active = ?", true, true).
		Preload("Service").
		Order("schedule_events.start_time asc")
	if serviceSlug != "" {
		query = query.Where("services.slug = ?", serviceSlug)
	}
	var events []models.ScheduleEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	data := make([]types.APIResponseSchedule, 0, len(events))
	for i := range events {
		data = append(data, scheduleToResponse(&events[i]))
	}
	return data, nil
}

func createContact(ctx *gin.Context, cfg *config.Config, body *types.CreateContactRequestBody) {
	contact := models.Contact{
		Name:    strings.TrimSpace(body.Name),
		Email:   body.Email,
		Message: strings.TrimSpace(body.Message),
		Status:  types.CONTACT_NEW,
	}
	if phone := strings.TrimSpace(body.Phone); phone != "" {
		contact.Phone = &phone
	}
	d := db.GetDb()
	if err := d.Create(&contact).Error; err != nil {
		respondError(ctx, err)
		return
	}

	go func() {
		subject := fmt.Sprintf("Новое сообщение #%d", contact.ID)
		text := fmt.Sprintf("Сообщение #%d: %s, %s\n\n%s", contact.ID, contact.Name, contact.Email, contact.Message)
		if err := mailer.NotifyAdmin(cfg, subject, text); err != nil {
			log.Printf("Error notifying admin for Contact [%d]: %s\n", contact.ID, err.Error())
		}
	}()

	ctx.JSON(http.StatusOK, types.APIResponseContact{
		OK:      true,
		ID:      contact.ID,
		Message: "Спасибо! Мы получили сообщение и скоро свяжемся с вами.",
	})
}

func publicHandlers(g *gin.RouterGroup, cfg *config.Config) *gin.RouterGroup {
	listSchedule := func(ctx *gin.Context) {
		data, err := listScheduleEvents(ctx.Query("service_slug"))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, data)
	}

	g.
		GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		}).
		GET("/site", func(ctx *gin.Context) {
			var cached gin.H
			if lib.CacheGetJSON(ctx.Request.Context(), cacheKeySite, &cached) {
				ctx.JSON(http.StatusOK, cached)
				return
			}
			d := db.GetDb()
			var rows []models.Setting
			if err := d.
				Model(&models.Setting{}).
				Where("is_public = ?", true).
				Find(&rows).
				Error; err != nil {
				respondError(ctx, err)
				return
			}
			site := serializeSite(rows)
			lib.CacheSetJSON(ctx.Request.Context(), cacheKeySite, site, cfg.CacheTTL)
			ctx.JSON(http.StatusOK, site)
		}).
		GET("/services", func(ctx *gin.Context) {
			formatMode := ctx.Query("format_mode")
			includeDrafts := ctx.Query("include_drafts") == "true"

			cacheable := formatMode == "" && !includeDrafts
			if cacheable {
				var cached []models.Service
				if lib.CacheGetJSON(ctx.Request.Context(), cacheKeyServices, &cached) {
					ctx.JSON(http.StatusOK, cached)
					return
				}
			}

			d := db.GetDb()
			query := d.Model(&models.Service{}).Where("is_active = ?", true)
			if !includeDrafts {
				query = query.Where("is_draft = ?", false)
			}
			if formatMode != "" {
				query = query.Where("format_mode = ?", formatMode)
			}
			var services []models.Service
			if err := query.Order("id asc").Find(&services).Error; err != nil {
				respondError(ctx, err)
				return
			}
			if cacheable {
				lib.CacheSetJSON(ctx.Request.Context(), cacheKeyServices, services, cfg.CacheTTL)
			}
			ctx.JSON(http.StatusOK, services)
		}).
		GET("/services/:slug", func(ctx *gin.Context) {
			d := db.GetDb()
			var service models.Service
			if err := d.
				Where("slug = ? AND is_active = ?", ctx.Param("slug"), true).
				First(&service).
				Error; err != nil {
				respondError(ctx, types.ErrServiceNotFound)
				return
			}
			ctx.JSON(http.StatusOK, service)
		}).
		GET("/schedule", listSchedule).
		GET("/events.php", listSchedule).
		GET("/gallery", func(ctx *gin.Context) {
			category := ctx.Query("category")
			limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "120"))
			if err != nil || limit < 1 || limit > 500 {
				limit = 120
			}

			cacheable := category == "" && limit == 120
			if cacheable {
				var cached []models.GalleryItem
				if lib.CacheGetJSON(ctx.Request.Context(), cacheKeyGallery, &cached) {
					ctx.JSON(http.StatusOK, cached)
					return
				}
			}

			d := db.GetDb()
			query := d.Model(&models.GalleryItem{}).Where("is_active = ?", true)
			if category != "" {
				query = query.Where("category = ?", category)
			}
			var items []models.GalleryItem
			if err := query.
				Order("sort_order asc").
				Order("id desc").
				Limit(limit).
				Find(&items).
				Error; err != nil {
				respondError(ctx, err)
				return
			}
			if cacheable {
				lib.CacheSetJSON(ctx.Request.Context(), cacheKeyGallery, items, cfg.CacheTTL)
			}
			ctx.JSON(http.StatusOK, items)
		}).
		GET("/legal", func(ctx *gin.Context) {
			var cached []types.APIResponseLegalPage
			if lib.CacheGetJSON(ctx.Request.Context(), cacheKeyLegal, &cached) {
				ctx.JSON(http.StatusOK, cached)
				return
			}
			keys := make([]string, 0, len(legalPageOrder))
			for _, slug := range legalPageOrder {
				keys = append(keys, "legal_"+slug)
			}
			overrides := loadLegalOverrides(keys)
			pages := make([]types.APIResponseLegalPage, 0, len(legalPageOrder))
			for _, slug := range legalPageOrder {
				pages = append(pages, legalPage(overrides, slug))
			}
			lib.CacheSetJSON(ctx.Request.Context(), cacheKeyLegal, pages, cfg.CacheTTL)
			ctx.JSON(http.StatusOK, pages)
		}).
		GET("/legal/:slug", func(ctx *gin.Context) {
			slug := ctx.Param("slug")
			if _, ok := defaultLegalPages[slug]; !ok {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "legal page not found"})
				return
			}
			overrides := loadLegalOverrides([]string{"legal_" + slug})
			ctx.JSON(http.StatusOK, legalPage(overrides, slug))
		}).
		POST("/contacts", func(ctx *gin.Context) {
			var body types.CreateContactRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			createContact(ctx, cfg, &body)
		}).
		POST("/submit_contact.php", func(ctx *gin.Context) {
			var body types.CreateContactRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			createContact(ctx, cfg, &body)
		})
	return g
}
