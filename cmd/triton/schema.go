package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"helios-hq/triton/pkg/schema"
)

// The schema document format. Core packages never parse serialized
// schemas; this loader is the only place the on-disk shape is known. JSON
// schema files parse through the same path because YAML is a superset of
// JSON. Mapping sections are decoded through yaml.Node so that
// declaration order survives into the model, where it drives resolution
// and issue ordering.

type schemaDoc struct {
	ID      string    `yaml:"id"`
	Name    string    `yaml:"name"`
	Version string    `yaml:"version"`
	Types   yaml.Node `yaml:"types"`
	Enums   yaml.Node `yaml:"enums"`
	Slots   yaml.Node `yaml:"slots"`
	Classes yaml.Node `yaml:"classes"`
}

type classDoc struct {
	Description string    `yaml:"description"`
	Abstract    bool      `yaml:"abstract"`
	Mixin       bool      `yaml:"mixin"`
	IsA         string    `yaml:"is_a"`
	Mixins      []string  `yaml:"mixins"`
	Slots       []string  `yaml:"slots"`
	SlotUsage   yaml.Node `yaml:"slot_usage"`
	Attributes  yaml.Node `yaml:"attributes"`
	Rules       []ruleDoc `yaml:"rules"`
}

type slotDoc struct {
	Description       string    `yaml:"description"`
	Range             string    `yaml:"range"`
	Required          *bool     `yaml:"required"`
	Multivalued       *bool     `yaml:"multivalued"`
	Identifier        *bool     `yaml:"identifier"`
	Pattern           string    `yaml:"pattern"`
	MinimumValue      *float64  `yaml:"minimum_value"`
	MaximumValue      *float64  `yaml:"maximum_value"`
	MinimumLength     *int      `yaml:"minimum_length"`
	MaximumLength     *int      `yaml:"maximum_length"`
	EqualsExpression  string    `yaml:"equals_expression"`
	PermissibleValues yaml.Node `yaml:"permissible_values"`
}

type typeDoc struct {
	Base         string   `yaml:"base"`
	TypeOf       string   `yaml:"typeof"`
	Pattern      string   `yaml:"pattern"`
	MinimumValue *float64 `yaml:"minimum_value"`
	MaximumValue *float64 `yaml:"maximum_value"`
}

type enumDoc struct {
	Description       string    `yaml:"description"`
	PermissibleValues yaml.Node `yaml:"permissible_values"`
}

type ruleDoc struct {
	Title          string         `yaml:"title"`
	Description    string         `yaml:"description"`
	Deactivated    bool           `yaml:"deactivated"`
	Preconditions  *conditionsDoc `yaml:"preconditions"`
	Postconditions *conditionsDoc `yaml:"postconditions"`
	ElseConditions *conditionsDoc `yaml:"else_conditions"`
}

type conditionsDoc struct {
	SlotConditions       yaml.Node `yaml:"slot_conditions"`
	ExpressionConditions []string  `yaml:"expression_conditions"`
}

type permissibleValueDoc struct {
	Description string `yaml:"description"`
	Meaning     string `yaml:"meaning"`
}

// loadSchemaFile reads and parses a schema document into the model.
func loadSchemaFile(path string) (*schema.SchemaDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file %q: %w", path, err)
	}

	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema file %q: %w", path, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("schema file %q: missing required field \"name\"", path)
	}
	if doc.ID == "" {
		doc.ID = doc.Name
	}

	sch := schema.NewSchema(doc.ID, doc.Name)
	sch.Version = doc.Version

	err = eachPair(&doc.Types, func(name string, node *yaml.Node) error {
		var td typeDoc
		if err := node.Decode(&td); err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
		base := td.Base
		if base == "" {
			base = td.TypeOf
		}
		sch.AddType(&schema.TypeDefinition{
			Name:         name,
			Base:         base,
			Pattern:      td.Pattern,
			MinimumValue: td.MinimumValue,
			MaximumValue: td.MaximumValue,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&doc.Enums, func(name string, node *yaml.Node) error {
		var ed enumDoc
		if err := node.Decode(&ed); err != nil {
			return fmt.Errorf("enum %q: %w", name, err)
		}
		values, err := buildPermissibleValues(&ed.PermissibleValues)
		if err != nil {
			return fmt.Errorf("enum %q: %w", name, err)
		}
		sch.AddEnum(&schema.EnumDefinition{
			Name:              name,
			Description:       ed.Description,
			PermissibleValues: values,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&doc.Slots, func(name string, node *yaml.Node) error {
		sl, err := buildSlot(name, node)
		if err != nil {
			return fmt.Errorf("slot %q: %w", name, err)
		}
		sch.AddSlot(sl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&doc.Classes, func(name string, node *yaml.Node) error {
		cls, err := buildClass(name, node)
		if err != nil {
			return fmt.Errorf("class %q: %w", name, err)
		}
		sch.AddClass(cls)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sch, nil
}

func buildClass(name string, node *yaml.Node) (*schema.ClassDefinition, error) {
	var cd classDoc
	if err := node.Decode(&cd); err != nil {
		return nil, err
	}

	cls := &schema.ClassDefinition{
		Name:        name,
		Description: cd.Description,
		Abstract:    cd.Abstract,
		Mixin:       cd.Mixin,
		IsA:         cd.IsA,
		Mixins:      cd.Mixins,
		Slots:       cd.Slots,
	}

	err := eachPair(&cd.SlotUsage, func(slotName string, usage *yaml.Node) error {
		sl, err := buildSlot(slotName, usage)
		if err != nil {
			return fmt.Errorf("slot_usage %q: %w", slotName, err)
		}
		if cls.SlotUsage == nil {
			cls.SlotUsage = make(map[string]*schema.SlotDefinition)
		}
		cls.SlotUsage[slotName] = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&cd.Attributes, func(attrName string, attr *yaml.Node) error {
		sl, err := buildSlot(attrName, attr)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", attrName, err)
		}
		cls.AddAttribute(sl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range cd.Rules {
		rule, err := buildRule(&cd.Rules[i])
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		cls.Rules = append(cls.Rules, rule)
	}

	return cls, nil
}

func buildSlot(name string, node *yaml.Node) (*schema.SlotDefinition, error) {
	var sd slotDoc
	if err := node.Decode(&sd); err != nil {
		return nil, err
	}
	values, err := buildPermissibleValues(&sd.PermissibleValues)
	if err != nil {
		return nil, err
	}
	return &schema.SlotDefinition{
		Name:              name,
		Description:       sd.Description,
		Range:             sd.Range,
		Required:          sd.Required,
		Multivalued:       sd.Multivalued,
		Identifier:        sd.Identifier,
		Pattern:           sd.Pattern,
		MinimumValue:      sd.MinimumValue,
		MaximumValue:      sd.MaximumValue,
		MinimumLength:     sd.MinimumLength,
		MaximumLength:     sd.MaximumLength,
		PermissibleValues: values,
		EqualsExpression:  sd.EqualsExpression,
	}, nil
}

func buildRule(rd *ruleDoc) (*schema.Rule, error) {
	rule := &schema.Rule{
		Title:       rd.Title,
		Description: rd.Description,
		Deactivated: rd.Deactivated,
	}
	var err error
	if rule.Preconditions, err = buildConditions(rd.Preconditions); err != nil {
		return nil, fmt.Errorf("preconditions: %w", err)
	}
	if rule.Postconditions, err = buildConditions(rd.Postconditions); err != nil {
		return nil, fmt.Errorf("postconditions: %w", err)
	}
	if rule.ElseConditions, err = buildConditions(rd.ElseConditions); err != nil {
		return nil, fmt.Errorf("else_conditions: %w", err)
	}
	return rule, nil
}

func buildConditions(cd *conditionsDoc) (*schema.RuleConditions, error) {
	if cd == nil {
		return nil, nil
	}
	rc := &schema.RuleConditions{
		ExpressionConditions: cd.ExpressionConditions,
	}
	err := eachPair(&cd.SlotConditions, func(slotName string, cond *yaml.Node) error {
		sl, err := buildSlot(slotName, cond)
		if err != nil {
			return fmt.Errorf("slot condition %q: %w", slotName, err)
		}
		rc.AddSlotCondition(slotName, sl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// buildPermissibleValues accepts either a mapping of value text to an
// optional description block, or a plain sequence of value strings.
func buildPermissibleValues(node *yaml.Node) ([]schema.PermissibleValue, error) {
	if node.Tag == "!!null" {
		return nil, nil
	}
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.SequenceNode:
		values := make([]schema.PermissibleValue, 0, len(node.Content))
		for _, item := range node.Content {
			var text string
			if err := item.Decode(&text); err != nil {
				return nil, fmt.Errorf("permissible value: %w", err)
			}
			values = append(values, schema.SimpleValue(text))
		}
		return values, nil
	case yaml.MappingNode:
		values := make([]schema.PermissibleValue, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			text := node.Content[i].Value
			body := node.Content[i+1]
			if body.Tag == "!!null" {
				values = append(values, schema.SimpleValue(text))
				continue
			}
			var pv permissibleValueDoc
			if err := body.Decode(&pv); err != nil {
				return nil, fmt.Errorf("permissible value %q: %w", text, err)
			}
			values = append(values, schema.StructuredValue(text, pv.Description, pv.Meaning))
		}
		return values, nil
	default:
		return nil, fmt.Errorf("permissible_values must be a mapping or a sequence")
	}
}

// eachPair walks a YAML mapping node in document order. A zero node (the
// section was absent) is fine; any other non-mapping kind is an error.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
