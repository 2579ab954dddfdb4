package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	predictC "tuneup/controller/predict"
	"tuneup/garage"
	"tuneup/lib/encoder"
	predictionL "tuneup/lib/prediction"
	webL "tuneup/lib/web"
	"tuneup/regressor"
	"tuneup/service/common"
)

const (
	FormURL       = "/"
	templatesGlob = "templates/*.tmpl"
	historyLimit  = 50
)

type server struct {
	*gin.Engine
	gar  garage.Garage
	args serverArgs
}

type serverArgs struct {
	garage.GarageArgs
	common.HealthCheckArgs
	common.PrometheusArgs
	common.PprofArgs
	SessionKey string `arg:"required,--session_key,env:SESSION_KEY"`
	AppPort    string `arg:"--app-port,env:APP_PORT" default:"8080"`

	RandSeed int64 `arg:"--rand_seed,env:RAND_SEED"`
}

func NewServer() (server, error) {
	args := serverArgs{}
	err := arg.Parse(&args)
	if err != nil {
		return server{}, err
	}
	if err := args.GarageArgs.Valid(); err != nil {
		return server{}, err
	}
	gar, err := garage.CreateFromArgs(&args.GarageArgs)
	if err != nil {
		return server{}, fmt.Errorf("failed to setup garage: %v", err)
	}
	s, err := createServer(gar, args)
	if err != nil {
		return server{}, err
	}

	seed := args.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rand.Seed(seed)
	log.Printf("Using rand seed %d\n", seed)

	common.StartHealthCheckServer(gar, args.HealthPort)
	common.StartPromMetricsServer(args.MetricsPort)
	common.StartPprofServer(args.PprofPort)

	return s, nil
}

// createServer wires middlewares and routes without touching flags or the
// network, so tests can build one around a test garage.
func createServer(gar garage.Garage, args serverArgs) (server, error) {
	s := server{
		Engine: gin.Default(),
		gar:    gar,
		args:   args,
	}
	if err := s.SetTrustedProxies(nil); err != nil {
		return server{}, err
	}
	s.setupMiddlewares()
	s.setupRouter()
	return s, nil
}

func (s *server) setupMiddlewares() {
	s.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(s.args.SessionKey))
	s.Use(sessions.Sessions("tuneup_session", store))

	s.Use(webL.WithFlashMessage)
	s.Use(prometheusMiddleware())
	s.Use(tracingMiddleware(s.gar.Logger, 500*time.Millisecond))
}

func (s *server) setupRouter() {
	s.LoadHTMLGlob(templatesGlob)

	s.GET("/ping", s.Ping)
	s.GET(FormURL, s.Form)
	s.POST("/predict", s.Predict)
	s.GET("/history", s.History)
}

func (s *server) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// Form renders the input page. Every field is derived from the loaded
// bundle, so a retrained model with different columns changes the page
// without a code change.
func (s *server) Form(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	selects, numbers := formFields(s.gar.Bundle)
	c.HTML(http.StatusOK, "form.tmpl", gin.H{
		"title":    title("Predict"),
		"flashMsg": c.GetStringMapString(webL.FlashMessageKey),
		"date":     s.gar.Clock.Now().Format(dateFormat),
		"selects":  selects,
		"numbers":  numbers,
	})
}

func (s *server) Predict(c *gin.Context) {
	req, ue := parseRequest(c, s.gar.Bundle)
	if ue != nil {
		// malformed input comes back to the form with a one-time message
		// instead of a dead-end error page
		session := sessions.Default(c)
		webL.AddFlashMessage(session, webL.FlashTypeError, ue.Msg)
		c.Redirect(http.StatusFound, FormURL)
		return
	}

	p, err := predictC.Predict(c.Request.Context(), s.gar, req)
	if err != nil {
		var unknown *encoder.UnknownLabelError
		var inference *regressor.InferenceError
		switch {
		case errors.As(err, &unknown):
			s.gar.Logger.Warn("prediction request with unknown label",
				zap.String("column", string(unknown.Column)),
				zap.String("label", unknown.Label))
			webL.RespondError(c, &webL.ErrorUnknownCategory, "encode the vehicle details")
		case errors.As(err, &inference):
			s.gar.Logger.Error("model inference failed", zap.Error(err))
			webL.RespondError(c, &webL.ErrorPredictionFailed, "compute the prediction")
		default:
			webL.RespondError(c, err, "compute the prediction")
		}
		return
	}

	c.HTML(http.StatusOK, "result.tmpl", gin.H{
		"title":     title("Prediction Result"),
		"raw":       p.RawString(),
		"effective": p.EffectiveString(),
		"dueDate":   p.DueDateString(),
		"note":      predictionL.Note,
		"requestID": string(p.RequestID),
	})
}

func (s *server) History(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	if s.gar.DB.IsAbsent() {
		c.HTML(http.StatusOK, "history.tmpl", gin.H{
			"title":    title("History"),
			"disabled": true,
		})
		return
	}
	rows, err := predictC.Recent(c.Request.Context(), s.gar, historyLimit)
	if err != nil {
		webL.RespondError(c, err, "read the prediction history")
		return
	}
	c.HTML(http.StatusOK, "history.tmpl", gin.H{
		"title": title("History"),
		"rows": lo.Map(rows, func(row predictionL.LogRow, _ int) gin.H {
			return gin.H{
				"requestID": string(row.RequestID),
				"time":      time.Unix(row.Timestamp, 0).UTC().Format("2006-01-02 15:04"),
				"model":     fmt.Sprintf("%s@%s", row.ModelName, row.ModelVersion),
				"raw":       fmt.Sprintf("%.2f", row.RawInterval),
				"months":    row.Months,
				"dueDate":   row.DueDate,
			}
		}),
	})
}

func title(name string) string {
	return fmt.Sprintf("Tuneup | %s", name)
}
