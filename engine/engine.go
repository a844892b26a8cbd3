package engine

import (
	"log"
	"time"

	"ambercore/catalog"
	"ambercore/config"
	"ambercore/mission"
	"ambercore/robot"
	"ambercore/workflow"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	Robot      *robot.Client
	Store      *mission.Store
	LogFunc    LogFunc
}

// Engine wires the device client, point catalog, mission queue and workflow
// composer together and owns the process-wide event bus.
type Engine struct {
	cfg        *config.Config
	configPath string
	robot      *robot.Client
	store      *mission.Store
	resolver   *catalog.Resolver
	charger    *workflow.ChargerStrategy
	missions   *mission.Manager
	composer   *workflow.Composer
	Events     *EventBus
	logFn      LogFunc

	stopChan       chan struct{}
	robotConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	e := &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		robot:      c.Robot,
		store:      c.Store,
		Events:     NewEventBus(),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}

	mapID := e.cfg.Catalog.MapID
	e.resolver = catalog.NewResolver(e.robot, e.cfg.Catalog.CacheTTL)
	e.charger = workflow.NewChargerStrategy(e.robot, e.resolver, mapID)

	emitter := &missionEmitter{bus: e.Events}
	e.missions = mission.NewManager(
		e.store,
		e.robot,
		e.charger,
		emitter,
		e.cfg.Missions.TickInterval,
		e.cfg.Missions.MaxRetries,
	)

	bins := &workflow.DeviceBinChecker{Client: e.robot}
	e.composer = workflow.NewComposer(e.resolver, e.robot, bins, e.missions, mapID, e.cfg.Robot.ID)

	return e
}

func (e *Engine) Start() {
	e.missions.Start()
	e.checkConnectionStatus()
	go e.connectionHealthLoop()
	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	select {
	case e.stopChan <- struct{}{}:
	default:
	}
	e.missions.Stop()
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) AppConfig() *config.Config    { return e.cfg }
func (e *Engine) ConfigPath() string           { return e.configPath }
func (e *Engine) Robot() *robot.Client         { return e.robot }
func (e *Engine) Catalog() *catalog.Resolver   { return e.resolver }
func (e *Engine) Missions() *mission.Manager   { return e.missions }
func (e *Engine) Composer() *workflow.Composer { return e.composer }

// RefreshCatalog invalidates the point cache, used after structural map edits.
func (e *Engine) RefreshCatalog() {
	e.resolver.Refresh()
	e.Events.Emit(Event{Type: EventCatalogRefreshed, Payload: CatalogRefreshedEvent{MapID: e.cfg.Catalog.MapID}})
}

func (e *Engine) checkConnectionStatus() {
	if err := e.robot.Ping(); err == nil {
		if !e.robotConnected {
			e.robotConnected = true
			e.Events.Emit(Event{Type: EventRobotConnected, Payload: ConnectionEvent{Detail: "robot connected"}})
		}
	} else {
		if e.robotConnected {
			e.robotConnected = false
			e.Events.Emit(Event{Type: EventRobotDisconnected, Payload: ConnectionEvent{Detail: err.Error()}})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
