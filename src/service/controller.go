package service

import (
	"github.com/warp-contracts/mindshare/src/chain"
	"github.com/warp-contracts/mindshare/src/encryption"
	"github.com/warp-contracts/mindshare/src/gateway"
	"github.com/warp-contracts/mindshare/src/journal"
	"github.com/warp-contracts/mindshare/src/lifecycle"
	"github.com/warp-contracts/mindshare/src/notify"
	"github.com/warp-contracts/mindshare/src/repository"
	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/eth"
	"github.com/warp-contracts/mindshare/src/utils/model"
	"github.com/warp-contracts/mindshare/src/utils/monitoring"
	monitor_records "github.com/warp-contracts/mindshare/src/utils/monitoring/records"
	"github.com/warp-contracts/mindshare/src/utils/publisher"
	"github.com/warp-contracts/mindshare/src/utils/task"

	"github.com/ethereum/go-ethereum/ethclient"
	"gorm.io/gorm"
)

// Assembles all components. Commands use the lifecycle controller directly,
// the long running service additionally starts the servers.
type Controller struct {
	*task.Task

	Lifecycle *lifecycle.Controller
	Notifier  *notify.Notifier
	Journal   *journal.Journal
	Monitor   *monitor_records.Monitor

	repository *repository.Repository
	client     *ethclient.Client
	db         *gorm.DB
}

func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "mindshare")

	defer func() {
		if err != nil {
			self.Close()
		}
	}()

	self.Monitor = monitor_records.NewMonitor()

	// Records contract
	self.client, err = eth.GetEthClient(self.Log, &config.Chain)
	if err != nil {
		return
	}

	err = eth.CheckChainId(self.Ctx, self.client, config.Chain.ChainId)
	if err != nil {
		self.Log.WithError(err).Error("Failed to check chain id")
		return
	}

	contract, err := chain.NewEthContractWithBackend(config.Chain.ContractAddress, self.client)
	if err != nil {
		return
	}
	contract = contract.
		WithCallTimeout(config.Chain.CallTimeout).
		WithConfirmationTimeout(config.Chain.ConfirmationTimeout)

	// Operation journal
	self.db, err = model.NewConnection(self.Ctx, config, "mindshare")
	if err != nil {
		return
	}
	self.Journal = journal.NewJournal(self.db).
		WithMonitor(self.Monitor)

	self.repository = repository.NewRepository(config).
		WithReader(contract).
		WithMonitor(self.Monitor)

	self.Notifier = notify.NewNotifier(&config.Notifier)

	self.Lifecycle = lifecycle.NewController(config).
		WithContract(contract).
		WithRepository(self.repository).
		WithEncryption(encryption.NewGateway(&config.Encryption)).
		WithNotifier(self.Notifier).
		WithJournal(self.Journal).
		WithMonitor(self.Monitor)

	if config.Chain.PrivateKey != "" {
		address, err := self.Lifecycle.Connect(config.Chain.PrivateKey)
		if err != nil {
			self.Log.WithError(err).Error("Failed to connect wallet")
			return self, err
		}
		self.Log.WithField("address", address.Hex()).Info("Wallet connected")
	}

	self.Task = self.Task.WithOnAfterStop(self.close)
	return
}

// Adds the monitoring server, the REST API and the optional status publisher.
// Everything starts upon calling Controller.Start()
func (self *Controller) WithServers() *Controller {
	monitoringServer := monitoring.NewServer(self.Config).
		WithMonitor(self.Monitor)

	api := gateway.NewServer(self.Config).
		WithController(self.Lifecycle).
		WithNotifier(self.Notifier).
		WithJournal(self.Journal).
		WithRoutes()

	self.Task.
		WithSubtask(self.Monitor.Task).
		WithSubtask(monitoringServer.Task).
		WithSubtask(self.repository.Task).
		WithSubtask(api.Task)

	if self.Config.Redis.Enabled {
		statuses, unsubscribe := self.Notifier.Subscribe()
		statusPublisher := publisher.NewRedisPublisher[model.TransactionStatus](self.Config, "status-publisher").
			WithInputChannel(statuses).
			WithMonitor(self.Monitor)

		// Closing the channel lets the publisher finish
		self.Task.
			WithSubtask(statusPublisher.Task).
			WithOnStop(unsubscribe)
	}

	// Initial snapshot, failure is reported to the user and retried by the refresh
	self.Task.WithOnBeforeStart(func() error {
		records, err := self.Lifecycle.Reload(self.Ctx)
		if err != nil {
			self.Log.WithError(err).Warn("Failed to load records")
			return nil
		}
		self.Log.WithField("count", len(records)).Info("Loaded records")
		return nil
	})

	return self
}

// Releases resources of a controller that was never started
func (self *Controller) Close() {
	if self.repository != nil {
		self.repository.Workers.StopWait()
	}
	self.close()
}

func (self *Controller) close() {
	if self.Lifecycle != nil {
		self.Lifecycle.Disconnect()
	}

	if self.db != nil {
		db, err := self.db.DB()
		if err == nil {
			err = db.Close()
		}
		if err != nil {
			self.Log.WithError(err).Warn("Failed to close journal database")
		}
	}

	if self.client != nil {
		self.client.Close()
	}
}
