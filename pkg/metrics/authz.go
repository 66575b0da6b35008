package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/7/2 19:40
 * @file: authz.go
 * @description: authorization / workflow counters
 */

var (
	// AuthDecisions 授权判定计数，outcome: allowed/denied/unauthorized
	AuthDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foundry",
			Subsystem: "authz",
			Name:      "decisions_total",
			Help:      "Authorization gate decisions by outcome.",
		},
		[]string{"outcome", "submodule"},
	)

	// WorkflowTransitions 成功的工作流转移计数
	WorkflowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foundry",
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Successful lead workflow transitions by target stage.",
		},
		[]string{"stage"},
	)

	// TransitionConflicts 乐观并发冲突计数
	TransitionConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foundry",
			Subsystem: "workflow",
			Name:      "transition_conflicts_total",
			Help:      "Transitions rejected by the version compare-and-swap.",
		},
	)
)
