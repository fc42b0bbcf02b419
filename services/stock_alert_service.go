// services/stock_alert_service.go
package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"garagepro-backend/store"
)

const agingCutoffMonths = 12

// StockAlertService sends a daily inventory summary: parts that have been
// sitting for over a year and parts running low. Delivery is over Twilio
// when credentials and a recipient are configured; otherwise the summary
// only goes to the log.
type StockAlertService struct {
	store     store.Store
	reports   *ReportService
	log       *logrus.Logger
	client    *twilio.RestClient
	threshold int
}

func NewStockAlertService(st store.Store, reports *ReportService, log *logrus.Logger, lowStockThreshold int) *StockAlertService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &StockAlertService{
		store:   st,
		reports: reports,
		log:     log,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		threshold: lowStockThreshold,
	}
}

// StartScheduler runs the alert job every day at 9 AM.
func (s *StockAlertService) StartScheduler() *cron.Cron {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		s.ProcessAlerts()
	})

	c.Start()
	s.log.Info("stock alert scheduler started")
	return c
}

// ProcessAlerts builds and delivers the daily summary.
func (s *StockAlertService) ProcessAlerts() {
	s.log.Info("starting daily stock alert processing")

	aging, err := s.reports.GetAgingStock(agingCutoffMonths)
	if err != nil {
		s.log.WithError(err).Error("failed to compute aging stock")
		return
	}

	parts, err := s.store.ListParts(store.PartFilter{InStockOnly: true})
	if err != nil {
		s.log.WithError(err).Error("failed to list parts")
		return
	}

	var lines []string
	for _, entry := range aging {
		lines = append(lines, fmt.Sprintf("%s: %d in stock since %s (%d months)",
			entry.Part.Name, entry.Part.Stock,
			entry.PurchaseDate.Format("2006-01-02"), entry.MonthsInStock))
	}
	for _, p := range parts {
		if p.Stock <= s.threshold {
			lines = append(lines, fmt.Sprintf("%s: low stock (%d left)", p.Name, p.Stock))
		}
	}

	if len(lines) == 0 {
		s.log.Info("no stock alerts today")
		return
	}

	message := "GaragePro stock alerts:\n" + strings.Join(lines, "\n")
	s.log.WithField("alerts", len(lines)).Info(message)
	s.send(message)
}

func (s *StockAlertService) send(message string) {
	to := os.Getenv("ALERT_PHONE_NUMBER")
	from := os.Getenv("TWILIO_PHONE_NUMBER")
	if to == "" || from == "" || os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		return
	}

	if strings.HasPrefix(to, "+") && os.Getenv("TWILIO_WHATSAPP_NUMBER") != "" {
		to = "whatsapp:" + to
		from = "whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.log.WithError(err).Error("failed to send stock alert")
		return
	}
	if resp.Sid != nil {
		s.log.WithField("sid", *resp.Sid).Info("stock alert sent")
	}
}
