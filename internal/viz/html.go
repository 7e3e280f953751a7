// Package viz renders the reading graph as an interactive HTML page.
package viz

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SamhitaKotian/reading-graph/internal/graph"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title string // Page title; defaults to "Reading Graph"
	Live  bool   // Wire node clicks and a websocket to a local server
}

// GenerateHTML generates a self-contained HTML page for the graph. With
// Live set, node clicks post to the serving process and updates stream back
// over its websocket; otherwise selection highlighting runs purely
// client-side on the embedded data.
func GenerateHTML(g *graph.Graph, opts HTMLOptions) (string, error) {
	if g == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if g.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := ToCytoscapeJSON(g)
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Reading Graph"
	}

	data := templateData{
		Title:     title,
		GraphJSON: template.JS(graphJSON),
		Live:      opts.Live,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	GraphJSON template.JS
	Live      bool
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Reading Graph - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No books yet</h2>
    <p>Import your library export first:</p>
    <p><code>reading-graph import goodreads_library_export.csv</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #11151c;
    }
    #cy { width: 100%; height: 100vh; }
    #toolbar {
      position: absolute;
      top: 12px;
      left: 12px;
      z-index: 1000;
      display: flex;
      gap: 8px;
      align-items: center;
    }
    #toolbar button {
      background: #1f2733;
      color: #dce3ec;
      border: 1px solid #39465a;
      border-radius: 4px;
      padding: 6px 12px;
      cursor: pointer;
    }
    #toolbar button:hover { background: #2a3544; }
    #status { color: #7d8aa0; font-size: 12px; }
    #tooltip {
      position: absolute;
      display: none;
      background: #1f2733;
      color: #dce3ec;
      border: 1px solid #39465a;
      border-radius: 4px;
      padding: 8px 12px;
      max-width: 320px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .theme-list { color: #9db0c8; margin-top: 4px; }
  </style>
</head>
<body>
  <div id="toolbar">
    <button id="reset-btn">Reset view</button>
    <span id="status"></span>
  </div>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    var elements = {{.GraphJSON}};
    var live = {{if .Live}}true{{else}}false{{end}};

    var bucketColors = {
      'gold': '#ffd700',
      'green': '#2e8b57',
      'lime-green': '#9acd32',
      'orange': '#ff8c00',
      'red': '#dc143c',
      'gray': '#8a93a1'
    };

    var cy = cytoscape({
      container: document.getElementById('cy'),
      elements: elements,
      layout: { name: 'cose', animate: false },
      style: [
        {
          selector: 'node',
          style: {
            'label': 'data(displayName)',
            'font-size': '10px',
            'color': '#c6d0dd',
            'text-valign': 'bottom',
            'text-margin-y': 4,
            'width': 22,
            'height': 22,
            'background-color': function(ele) {
              return bucketColors[ele.data('ratingBucket')] || bucketColors.gray;
            },
            'opacity': 'data(opacity)',
            'border-width': function(ele) { return ele.data('isSelected') ? 3 : 0; },
            'border-color': '#ffffff'
          }
        },
        {
          selector: 'edge',
          style: {
            'width': function(ele) { return ele.data('weight') * 2; },
            'line-color': '#45546b',
            'curve-style': 'bezier',
            'opacity': function(ele) { return ele.data('isVisible') ? 0.7 : 0; }
          }
        }
      ]
    });

    // Recent reads pulse. Live pages swell on the server's tick; static
    // exports run a local interval, cleared on page teardown so the
    // callback doesn't outlive the view.
    var pulsed = false;
    function swellRecent(ids) {
      pulsed = !pulsed;
      var nodes = ids && ids.length
        ? cy.nodes().filter(function(n) { return ids.indexOf(n.id()) !== -1; })
        : cy.nodes('[?isRecent]');
      nodes.style('width', pulsed ? 28 : 22).style('height', pulsed ? 28 : 22);
    }
    if (!live) {
      var pulseTimer = setInterval(function() { swellRecent(); }, 900);
      window.addEventListener('beforeunload', function() { clearInterval(pulseTimer); });
    }

    var tooltip = document.getElementById('tooltip');
    cy.on('mouseover', 'node', function(evt) {
      var d = evt.target.data();
      tooltip.innerHTML = '<strong>' + d.displayName + '</strong>' +
        (d.author ? ' &mdash; ' + d.author : '') +
        '<div class="theme-list">' + d.themeCount + ' themes</div>';
      tooltip.style.display = 'block';
    });
    cy.on('mouseout', 'node', function() { tooltip.style.display = 'none'; });
    cy.on('mousemove', function(evt) {
      if (tooltip.style.display === 'block' && evt.originalEvent) {
        tooltip.style.left = (evt.originalEvent.pageX + 12) + 'px';
        tooltip.style.top = (evt.originalEvent.pageY + 12) + 'px';
      }
    });

    function applyGraph(data) {
      cy.json({ elements: data });
    }

    function centerOn(id) {
      var node = cy.getElementById(id);
      if (node.nonempty()) {
        cy.animate({ center: { eles: node }, zoom: 1.4, duration: 300 });
      }
    }

    if (live) {
      var status = document.getElementById('status');

      function refresh() {
        fetch('/api/graph').then(function(r) { return r.json(); }).then(applyGraph);
      }

      cy.on('tap', 'node', function(evt) {
        fetch('/api/select/' + encodeURIComponent(evt.target.id()), { method: 'POST' });
      });
      document.getElementById('reset-btn').addEventListener('click', function() {
        fetch('/api/reset', { method: 'POST' });
      });

      var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
      ws.onmessage = function(msg) {
        var ev = JSON.parse(msg.data);
        switch (ev.type) {
          case 'node_selected':
            status.textContent = 'analyzing…';
            centerOn(ev.nodeId);
            break;
          case 'selection_completed':
            status.textContent = '';
            refresh();
            break;
          case 'selection_cleared':
            status.textContent = '';
            refresh();
            cy.animate({ fit: { padding: 40 }, duration: 300 });
            break;
          case 'books_updated':
            refresh();
            break;
          case 'pulse':
            swellRecent(ev.nodeIds);
            break;
        }
      };
    } else {
      // Static export: highlight locally without a server.
      cy.on('tap', 'node', function(evt) {
        var id = evt.target.id();
        var related = {};
        related[id] = true;
        cy.edges().forEach(function(e) {
          if (e.source().id() === id) related[e.target().id()] = true;
          if (e.target().id() === id) related[e.source().id()] = true;
        });
        cy.nodes().forEach(function(n) {
          n.style('opacity', related[n.id()] ? 1 : 0.2);
        });
        cy.edges().forEach(function(e) {
          e.style('opacity', related[e.source().id()] && related[e.target().id()] ? 0.7 : 0);
        });
        centerOn(id);
      });
      document.getElementById('reset-btn').addEventListener('click', function() {
        cy.nodes().style('opacity', 1);
        cy.edges().style('opacity', 0.7);
        cy.animate({ fit: { padding: 40 }, duration: 300 });
      });
    }
  </script>
</body>
</html>`
