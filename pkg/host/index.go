package host

import (
	"net/http"
)

// indexHTML shows the current scene, reloads it on every scene message and
// lists the details of the last click.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>samplegraph</title>
<style>
  body { font-family: sans-serif; margin: 1em; }
  #factors { margin-bottom: 1em; }
  table { border-collapse: collapse; margin-top: 1em; }
  td, th { border: 1px solid #ccc; padding: 0.2em 0.6em; text-align: left; }
</style>
</head>
<body>
<select id="factors" hidden></select>
<div id="scene">No samples yet.</div>
<table id="details" hidden>
  <thead><tr><th>Code</th><th>Secondary name</th><th>Lab ID</th></tr></thead>
  <tbody></tbody>
</table>
<script>
(function() {
  var sceneEl = document.getElementById('scene');
  var factorsEl = document.getElementById('factors');
  var detailsEl = document.getElementById('details');

  function loadScene() {
    fetch('/api/scene.svg').then(function(r) {
      if (!r.ok) { return; }
      return r.text().then(function(svg) {
        sceneEl.innerHTML = svg;
        sceneEl.querySelectorAll('script').forEach(function(old) {
          var s = document.createElement('script');
          s.textContent = old.textContent;
          old.replaceWith(s);
        });
      });
    });
  }

  function showDetails(rows) {
    var body = detailsEl.querySelector('tbody');
    body.innerHTML = '';
    (rows || []).forEach(function(d) {
      var tr = document.createElement('tr');
      [d.code, d.secondary_name || '', d.external_id || ''].forEach(function(v) {
        var td = document.createElement('td');
        td.textContent = v;
        tr.appendChild(td);
      });
      body.appendChild(tr);
    });
    detailsEl.hidden = !rows || rows.length === 0;
  }

  fetch('/api/factors').then(function(r) { return r.json(); }).then(function(f) {
    if (!f.factors.length) { return; }
    f.factors.forEach(function(name) {
      var o = document.createElement('option');
      o.value = o.textContent = name;
      o.selected = name === f.current;
      factorsEl.appendChild(o);
    });
    factorsEl.hidden = false;
    factorsEl.addEventListener('change', function() {
      fetch('/api/factor/' + encodeURIComponent(factorsEl.value), {method: 'PUT'});
    });
  });

  var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/api/events');
  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === 'scene') { loadScene(); showDetails([]); }
    if (msg.type === 'click') { showDetails(msg.details); }
  };

  loadScene();
})();
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
