//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"sync"
	"syscall/js"

	"aerial-rl-go/internal/config"
	"aerial-rl-go/internal/engine"
)

var (
	startFnOnce sync.Once
	trainerMu   sync.Mutex
	currentCtx  context.CancelFunc
	onSnapshot  js.Value
)

func main() {
	registerCallbacks()
	// Prevent the program from exiting.
	select {}
}

func registerCallbacks() {
	startFnOnce.Do(func() {
		js.Global().Set("aerialrlRegisterSnapshotHandler", js.FuncOf(registerSnapshotHandler))
		js.Global().Set("aerialrlStartTraining", js.FuncOf(startTraining))
		js.Global().Set("aerialrlStopTraining", js.FuncOf(stopTraining))
	})
}

func registerSnapshotHandler(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 || args[0].Type() != js.TypeFunction {
		fmt.Println("registerSnapshotHandler requires a function argument")
		return nil
	}
	onSnapshot = args[0]
	return nil
}

// startTraining takes a JSON document shaped like the YAML config file; absent
// fields keep their defaults.
func startTraining(this js.Value, args []js.Value) interface{} {
	if len(args) == 0 {
		fmt.Println("startTraining requires a JSON config string")
		return nil
	}
	cfgFile, err := config.Overlay([]byte(args[0].String()))
	if err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return nil
	}
	if onSnapshot.IsUndefined() || onSnapshot.IsNull() {
		fmt.Println("snapshot handler not registered")
		return nil
	}
	trainer, err := engine.NewTrainer(cfgFile.EngineConfig())
	if err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return nil
	}

	trainerMu.Lock()
	if currentCtx != nil {
		currentCtx()
	}
	ctx, cancel := context.WithCancel(context.Background())
	currentCtx = cancel
	trainerMu.Unlock()

	go func() {
		for snapshot := range trainer.Run(ctx) {
			onSnapshot.Invoke(snapshotToJS(snapshot))
		}
	}()
	return nil
}

func stopTraining(this js.Value, args []js.Value) interface{} {
	trainerMu.Lock()
	if currentCtx != nil {
		currentCtx()
		currentCtx = nil
	}
	trainerMu.Unlock()
	return nil
}

func floatsToJS(values []float64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func snapshotToJS(snapshot engine.Snapshot) js.Value {
	valueMap := make([]interface{}, len(snapshot.ValueMap))
	for i, row := range snapshot.ValueMap {
		valueMap[i] = floatsToJS(row)
	}
	ball := map[string]interface{}{
		"x": snapshot.Ball.X,
		"y": snapshot.Ball.Y,
		"z": snapshot.Ball.Z,
	}
	cfg := map[string]interface{}{
		"episodes":    snapshot.Config.Episodes,
		"seed":        snapshot.Config.Seed,
		"epsilon":     snapshot.Config.Epsilon,
		"alpha":       snapshot.Config.Alpha,
		"gamma":       snapshot.Config.Gamma,
		"players":     snapshot.Config.Players,
		"maxSteps":    snapshot.Config.MaxSteps,
		"stepDelayMs": snapshot.Config.StepDelayMs,
		"algorithm":   snapshot.Config.Algorithm,
	}
	payload := map[string]interface{}{
		"step":              snapshot.Step,
		"episode":           snapshot.Episode,
		"episodeSteps":      snapshot.EpisodeSteps,
		"episodeReward":     snapshot.EpisodeReward,
		"episodeTouches":    snapshot.EpisodeTouches,
		"reward":            snapshot.Reward,
		"ball":              ball,
		"targetHeight":      snapshot.TargetHeight,
		"valueMap":          valueMap,
		"heightProfile":     floatsToJS(snapshot.HeightProfile),
		"goalCount":         snapshot.GoalCount,
		"episodesCompleted": snapshot.EpisodesCompleted,
		"totalReward":       snapshot.TotalReward,
		"totalSteps":        snapshot.TotalSteps,
		"config":            cfg,
		"status":            snapshot.Status,
	}
	return js.ValueOf(payload)
}
