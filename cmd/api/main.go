package main

import (
	"fmt"
	"net/http"

	"github.com/folhacerta/folha-backend-go/internal/config"
	appHTTP "github.com/folhacerta/folha-backend-go/internal/handler/http"
	"github.com/folhacerta/folha-backend-go/internal/pkg/cnab400"
	"github.com/folhacerta/folha-backend-go/internal/pkg/database"
	"github.com/folhacerta/folha-backend-go/internal/pkg/jwt"
	"github.com/folhacerta/folha-backend-go/internal/pkg/renderer"
	"github.com/folhacerta/folha-backend-go/internal/repository/postgresql"
	periodService "github.com/folhacerta/folha-backend-go/internal/service/period"
	remittanceService "github.com/folhacerta/folha-backend-go/internal/service/remittance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	periodRepo := postgresql.NewPeriodRepository(db)
	payrollEntryRepo := postgresql.NewPayrollEntryRepository(db)
	sequenceRepo := postgresql.NewSequenceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	gotenberg := renderer.NewGotenbergClient(cfg.Renderer.BaseURL, cfg.Renderer.Timeout)
	encoder := cnab400.NewItauEncoder()

	periodSvc := periodService.NewPeriodService(db, periodRepo, payrollEntryRepo)
	remittanceSvc := remittanceService.NewRemittanceService(
		periodRepo,
		payrollEntryRepo,
		sequenceRepo,
		encoder,
		gotenberg,
		cfg.Bank,
	)

	periodHandler := appHTTP.NewPeriodHandler(periodSvc)
	remittanceHandler := appHTTP.NewRemittanceHandler(remittanceSvc)

	router := appHTTP.NewRouter(
		JWTService,
		periodHandler,
		remittanceHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
