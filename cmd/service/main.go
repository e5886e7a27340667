package main

import (
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/saas-billing/api"
	"github.com/vocdoni/saas-billing/db"
	"github.com/vocdoni/saas-billing/stripe"
	"github.com/vocdoni/saas-billing/trials"
	"go.vocdoni.io/dvote/log"
)

func main() {
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongoURL", "", "The URL of the MongoDB server")
	flag.String("mongoDB", "saas-billing", "The name of the MongoDB database")
	flag.String("stripeApiSecret", "", "Stripe API secret")
	flag.Int("trialMessages", trials.DefaultMessages, "number of messages granted by a trial")
	flag.Duration("trialDuration", trials.DefaultDuration, "duration of a trial")
	flag.String("logLevel", "info", "log level (debug, info, warn, error)")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("VOCDONI")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	mongoURL := viper.GetString("mongoURL")
	mongoDB := viper.GetString("mongoDB")
	stripeAPISecret := viper.GetString("stripeApiSecret")
	trialMessages := viper.GetInt("trialMessages")
	trialDuration := viper.GetDuration("trialDuration")
	log.Init(viper.GetString("logLevel"), "stdout", nil)

	if secret == "" {
		log.Fatal("secret is required")
	}
	if mongoURL == "" {
		log.Fatal("mongoURL is required")
	}
	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()
	// initialize the Stripe client shared by the process
	stripeConfig, err := stripe.NewConfig(stripeAPISecret)
	if err != nil {
		log.Fatalf("could not configure stripe: %v", err)
	}
	if _, err := stripe.Init(stripeConfig); err != nil {
		log.Fatalf("could not create the stripe client: %v", err)
	}
	// create the trials service
	trialsService := trials.New(&trials.Config{
		DB:        database,
		Customers: stripe.Default(),
		Messages:  trialMessages,
		Duration:  trialDuration,
	})
	// create the local API server
	api.New(&api.Config{
		Host:   host,
		Port:   port,
		Secret: secret,
		Trials: trialsService,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port,
		"trialMessages", trialMessages, "trialDuration", trialDuration.String())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
