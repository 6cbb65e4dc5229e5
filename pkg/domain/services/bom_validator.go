package services

import (
	"fmt"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

// BOMValidator checks BOM definitions for structural problems.
// Findings are advisory: defining a BOM never fails because of them.
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// RepeatedComponent is a component listed on more than one line of the same BOM
type RepeatedComponent struct {
	Product   entities.ProductCode
	Component entities.ProductCode
	Lines     int
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles          bool
	CyclePaths         [][]entities.ProductCode
	UnknownComponents  map[entities.ProductCode][]entities.ProductCode
	SelfReferences     []entities.ProductCode
	RepeatedComponents []RepeatedComponent
	Warnings           []string
}

// OK reports whether validation found nothing to warn about
func (r *ValidationResult) OK() bool {
	return len(r.Warnings) == 0
}

// ValidateBOMs checks every BOM against the set of registered products
func (v *BOMValidator) ValidateBOMs(boms []*entities.BOM, known func(entities.ProductCode) bool) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:         make([][]entities.ProductCode, 0),
		UnknownComponents:  make(map[entities.ProductCode][]entities.ProductCode),
		SelfReferences:     make([]entities.ProductCode, 0),
		RepeatedComponents: make([]RepeatedComponent, 0),
		Warnings:           make([]string, 0),
	}

	for _, bom := range boms {
		counts := make(map[entities.ProductCode]int, len(bom.Items))
		order := make([]entities.ProductCode, 0, len(bom.Items))
		for _, item := range bom.Items {
			if item.Component == bom.Product {
				result.SelfReferences = append(result.SelfReferences, bom.Product)
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("BOM for %s lists itself as a component", bom.Product))
			}
			if known != nil && !known(item.Component) {
				result.UnknownComponents[bom.Product] = append(result.UnknownComponents[bom.Product], item.Component)
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("BOM for %s references unregistered component %s", bom.Product, item.Component))
			}
			if counts[item.Component] == 0 {
				order = append(order, item.Component)
			}
			counts[item.Component]++
		}
		for _, component := range order {
			if counts[component] > 1 {
				result.RepeatedComponents = append(result.RepeatedComponents, RepeatedComponent{
					Product:   bom.Product,
					Component: component,
					Lines:     counts[component],
				})
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("BOM for %s lists component %s on %d lines", bom.Product, component, counts[component]))
			}
		}
	}

	cycles := v.detectCycles(v.buildAdjacencyMap(boms))
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.Warnings = append(result.Warnings, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	return result
}

// buildAdjacencyMap creates a map of product -> distinct components, in BOM order
func (v *BOMValidator) buildAdjacencyMap(boms []*entities.BOM) map[entities.ProductCode][]entities.ProductCode {
	adjacencyMap := make(map[entities.ProductCode][]entities.ProductCode, len(boms))

	for _, bom := range boms {
		children := make([]entities.ProductCode, 0, len(bom.Items))
		seen := make(map[entities.ProductCode]bool, len(bom.Items))
		for _, item := range bom.Items {
			// self references are reported separately
			if item.Component == bom.Product || seen[item.Component] {
				continue
			}
			seen[item.Component] = true
			children = append(children, item.Component)
		}
		adjacencyMap[bom.Product] = children
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles between BOMs
func (v *BOMValidator) detectCycles(adjacencyMap map[entities.ProductCode][]entities.ProductCode) [][]entities.ProductCode {
	visited := make(map[entities.ProductCode]bool)
	recursionStack := make(map[entities.ProductCode]bool)
	cycles := make([][]entities.ProductCode, 0)

	for parent := range adjacencyMap {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.ProductCode,
	adjacencyMap map[entities.ProductCode][]entities.ProductCode,
	visited map[entities.ProductCode]bool,
	recursionStack map[entities.ProductCode]bool,
	path []entities.ProductCode,
	cycles *[][]entities.ProductCode,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}
		for i, code := range path {
			if code == child {
				cycle := make([]entities.ProductCode, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}
